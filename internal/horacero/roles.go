package horacero

// Roles is the fixed catalog. At game start each player receives one
// role by a random bijection; the catalog never changes at runtime.
var Roles = []Role{
	{
		ID:      "ciso",
		Title:   "Gerente de Seguridad (CISO)",
		Mission: "Liderar la respuesta técnica, coordinar la seguridad y evaluar la amenaza.",
	},
	{
		ID:      "it_manager",
		Title:   "Gerente de TI / Sistemas",
		Mission: "Evaluar copias de seguridad, planificar y ejecutar la restauración de sistemas.",
	},
	{
		ID:      "network_manager",
		Title:   "Gerente de Redes",
		Mission: "Monitorear el tráfico de red para identificar y contener la propagación.",
	},
	{
		ID:      "hr_manager",
		Title:   "Gerente de Recursos Humanos",
		Mission: "Gestionar la comunicación con empleados y mantener la moral.",
	},
	{
		ID:      "finance_manager",
		Title:   "Gerente de Finanzas",
		Mission: "Evaluar el impacto financiero y gestionar la liquidez para la respuesta.",
	},
	{
		ID:      "pr_manager",
		Title:   "Gerente de Comunicaciones/RRPP",
		Mission: "Gestionar la comunicación externa con clientes, medios y reguladores.",
	},
}

// Avatars mirrors the role catalog: six fixed avatar ids, assigned by
// an independent random bijection at game start.
var Avatars = []string{"avatar1", "avatar2", "avatar3", "avatar4", "avatar5", "avatar6"}
