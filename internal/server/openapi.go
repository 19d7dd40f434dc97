package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/cybersim/horacero/internal/horacero"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "Hora Cero API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Hora Cero crisis simulation.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/echo
	getWSEcho, _ := r.NewOperationContext(http.MethodGet, "/ws/echo")
	getWSEcho.SetSummary("WebSocket echo")
	getWSEcho.SetDescription("Upgrades to a WebSocket connection that echoes messages back.")
	getWSEcho.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEcho)

	// GET /api/sessions/{code}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{code}")
	getSession.SetSummary("Look up session")
	getSession.SetDescription("Lobby view of a session by access code. Poll until the status changes.")
	getSession.AddRespStructure(SessionView{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// POST /api/sessions/{code}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{code}/join")
	postJoin.SetSummary("Join a session")
	postJoin.SetDescription("An invited player registers name and email on a waiting session.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(SessionView{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// GET /api/sessions/{code}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{code}/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("The live game state when the session is running, else the persisted snapshot.")
	getState.AddRespStructure(horacero.GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// POST /api/sessions/{code}/decision
	postDecision, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{code}/decision")
	postDecision.SetSummary("Submit decision")
	postDecision.SetDescription("Submit the acting player's choice for the active dilemma. Evaluation is asynchronous.")
	postDecision.AddReqStructure(DecisionRequest{})
	postDecision.AddRespStructure(DecisionResponse{}, openapi.WithHTTPStatus(http.StatusAccepted))
	postDecision.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postDecision.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postDecision)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with the shared admin password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the current admin session. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/sessions
	listSessions, _ := r.NewOperationContext(http.MethodGet, "/api/admin/sessions")
	listSessions.SetSummary("List sessions")
	listSessions.SetDescription("Returns all sessions, newest first. Requires admin_session cookie.")
	listSessions.AddRespStructure([]horacero.GameSession{}, openapi.WithHTTPStatus(http.StatusOK))
	listSessions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listSessions)

	// POST /api/admin/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/admin/sessions")
	createSession.SetSummary("Create session")
	createSession.SetDescription("Creates a waiting session with an invited email list and a fresh access code. Requires admin_session cookie.")
	createSession.AddReqStructure(AdminCreateSessionRequest{})
	createSession.AddRespStructure(horacero.GameSession{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createSession)

	// GET /api/admin/sessions/{code}
	getAdminSession, _ := r.NewOperationContext(http.MethodGet, "/api/admin/sessions/{code}")
	getAdminSession.SetSummary("Get session")
	getAdminSession.SetDescription("Returns the full session document. Requires admin_session cookie.")
	getAdminSession.AddRespStructure(horacero.GameSession{}, openapi.WithHTTPStatus(http.StatusOK))
	getAdminSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getAdminSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getAdminSession)

	// POST /api/admin/sessions/{code}/start
	startSession, _ := r.NewOperationContext(http.MethodPost, "/api/admin/sessions/{code}/start")
	startSession.SetSummary("Start session")
	startSession.SetDescription("Starts a session once every invitee has joined; assigns roles and fetches the first dilemma. Requires admin_session cookie.")
	startSession.AddRespStructure(horacero.GameSession{}, openapi.WithHTTPStatus(http.StatusOK))
	startSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	startSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	startSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(startSession)

	// POST /api/admin/sessions/{code}/end
	endSession, _ := r.NewOperationContext(http.MethodPost, "/api/admin/sessions/{code}/end")
	endSession.SetSummary("End session")
	endSession.SetDescription("Forces a running game to finish and generate its report. Requires admin_session cookie.")
	endSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	endSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	endSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(endSession)

	// GET /api/admin/reports
	listReports, _ := r.NewOperationContext(http.MethodGet, "/api/admin/reports")
	listReports.SetSummary("List reports")
	listReports.SetDescription("Returns all post-game reports, newest first. Requires admin_session cookie.")
	listReports.AddRespStructure([]horacero.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	listReports.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listReports)

	// GET /api/admin/reports/{sessionID}
	getReport, _ := r.NewOperationContext(http.MethodGet, "/api/admin/reports/{sessionID}")
	getReport.SetSummary("Get report")
	getReport.SetDescription("Returns the report for one session. Requires admin_session cookie.")
	getReport.AddRespStructure(horacero.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getReport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getReport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getReport)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
