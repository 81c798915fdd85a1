package opportunities_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	opportunitiesfeature "github.com/tracknarino/backend/internal/app/features/opportunities"
	oppstore "github.com/tracknarino/backend/internal/app/store/opportunities"
	userstore "github.com/tracknarino/backend/internal/app/store/users"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/notify"
	"github.com/tracknarino/backend/internal/domain/models"
	"github.com/tracknarino/backend/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	router  http.Handler
	history http.Handler
	tokens  *sysauth.Manager
	users   *userstore.Store
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	users := userstore.New(db)
	opps := oppstore.New(db)
	tokens, err := sysauth.NewManager("test-secret-for-opp-feature", time.Hour)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	dispatcher := notify.New(notify.Config{Enabled: false}, log)

	h := opportunitiesfeature.NewHandler(opps, users, dispatcher, log)
	return fixture{
		router:  opportunitiesfeature.Routes(h, tokens, log),
		history: opportunitiesfeature.HistoryRoutes(h, tokens, log),
		tokens:  tokens,
		users:   users,
	}
}

func (f fixture) user(t *testing.T, u models.User) (models.User, string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	created, err := f.users.Create(ctx, u)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	token, err := f.tokens.Issue(created.ID.Hex(), created.Role)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return created, token
}

func (f fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"titulo": "Carga de café Pasto a Ipiales",
	"origen": "Pasto",
	"destino": "Ipiales",
	"precio": 850000,
	"pesoCarga": 8,
	"tipoCarga": "café"
}`

func TestLifecycleOverHTTP(t *testing.T) {
	f := setup(t)
	_, contractorTok := f.user(t, testutil.ContractorFixture())
	_, driverTok := f.user(t, testutil.DriverFixture())
	_, otherDriverTok := f.user(t, testutil.DriverFixture())

	// Contractor posts a load.
	rec := f.do("POST", "/crear", contractorTok, createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	oppID := created.ID.Hex()

	// Drivers post loads too, on behalf of a contractor.
	if rec := f.do("POST", "/crear", driverTok, createBody); rec.Code != http.StatusCreated {
		t.Errorf("driver create: got %d, want 201", rec.Code)
	}

	// Driver accepts.
	rec = f.do("PUT", "/"+oppID+"/aceptar", driverTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: got %d, body %s", rec.Code, rec.Body.String())
	}
	var afterAccept models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &afterAccept); err != nil {
		t.Fatalf("decoding accept response: %v", err)
	}
	if afterAccept.Status != models.StatusAssigned {
		t.Errorf("status after accept: got %q", afterAccept.Status)
	}

	// Second driver loses and gets the legacy 400.
	if rec := f.do("PUT", "/"+oppID+"/aceptar", otherDriverTok, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("losing accept: got %d, want 400", rec.Code)
	}

	// Active trip shows up for the winner.
	rec = f.do("GET", "/viaje-activo", driverTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("viaje-activo: got %d", rec.Code)
	}

	// Start, then finish.
	if rec := f.do("PUT", "/"+oppID+"/iniciar", driverTok, ""); rec.Code != http.StatusOK {
		t.Fatalf("start: got %d, body %s", rec.Code, rec.Body.String())
	}
	rec = f.do("PUT", "/"+oppID+"/finalizar", driverTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("finish: got %d, body %s", rec.Code, rec.Body.String())
	}
	var finished models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &finished); err != nil {
		t.Fatalf("decoding finish response: %v", err)
	}
	if finished.Status != models.StatusFinished || !finished.Finished {
		t.Errorf("after finish: status %q finished %v", finished.Status, finished.Finished)
	}

	// History keeps the finished trip; the active view is empty.
	rec = f.do("GET", "/historial", driverTok, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), oppID) {
		t.Errorf("historial: got %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := f.do("GET", "/viaje-activo", driverTok, ""); rec.Code != http.StatusNotFound {
		t.Errorf("viaje-activo after finish: got %d, want 404", rec.Code)
	}
}

func TestLegacyPathShapes(t *testing.T) {
	f := setup(t)
	_, contractorTok := f.user(t, testutil.ContractorFixture())
	_, driverTok := f.user(t, testutil.DriverFixture())

	rec := f.do("POST", "/crear", contractorTok, createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	oppID := created.ID.Hex()

	// The explicit listing path returns the new load.
	rec = f.do("GET", "/disponibles", driverTok, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), oppID) {
		t.Fatalf("disponibles: got %d, body %s", rec.Code, rec.Body.String())
	}

	// Older app builds accept through POST /asignar/{id}.
	rec = f.do("POST", "/asignar/"+oppID, driverTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("legacy accept: got %d, body %s", rec.Code, rec.Body.String())
	}
	var accepted models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decoding accept response: %v", err)
	}
	if accepted.Status != models.StatusAssigned {
		t.Errorf("status after legacy accept: got %q", accepted.Status)
	}

	// The contractor closes it through POST /finalizar/{id}.
	rec = f.do("POST", "/finalizar/"+oppID, contractorTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("legacy finish: got %d, body %s", rec.Code, rec.Body.String())
	}
	var finished models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &finished); err != nil {
		t.Fatalf("decoding finish response: %v", err)
	}
	if finished.Status != models.StatusFinished {
		t.Errorf("status after legacy finish: got %q", finished.Status)
	}

	// The standalone history mount shows each side its trips.
	for _, tc := range []struct {
		path  string
		token string
	}{
		{"/camionero", driverTok},
		{"/contratista", contractorTok},
	} {
		req := httptest.NewRequest("GET", tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		rec := httptest.NewRecorder()
		f.history.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), oppID) {
			t.Errorf("historial %s: got %d, body %s", tc.path, rec.Code, rec.Body.String())
		}
	}
}

func TestCancelOverHTTP(t *testing.T) {
	f := setup(t)
	_, contractorTok := f.user(t, testutil.ContractorFixture())
	_, driverTok := f.user(t, testutil.DriverFixture())

	rec := f.do("POST", "/crear", contractorTok, createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rec.Code)
	}
	var created models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	oppID := created.ID.Hex()

	if rec := f.do("PUT", "/"+oppID+"/aceptar", driverTok, ""); rec.Code != http.StatusOK {
		t.Fatalf("accept: got %d", rec.Code)
	}
	rec = f.do("PUT", "/"+oppID+"/cancelar", driverTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: got %d, body %s", rec.Code, rec.Body.String())
	}
	var released models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &released); err != nil {
		t.Fatalf("decoding cancel response: %v", err)
	}
	if released.Status != models.StatusAvailable || released.AssignedDriver != nil {
		t.Errorf("after cancel: status %q driver %v", released.Status, released.AssignedDriver)
	}
}

func TestAssignAndContractorFinishOverHTTP(t *testing.T) {
	f := setup(t)
	_, contractorTok := f.user(t, testutil.ContractorFixture())
	driver, _ := f.user(t, testutil.DriverFixture())

	rec := f.do("POST", "/crear", contractorTok, createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rec.Code)
	}
	var created models.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	oppID := created.ID.Hex()

	rec = f.do("PUT", "/asignar/"+oppID, contractorTok, `{"camioneroId":"`+driver.ID.Hex()+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.do("PUT", "/finalizar/"+oppID, contractorTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("contractor finish: got %d, body %s", rec.Code, rec.Body.String())
	}

	// Unauthenticated requests never reach the handlers.
	req := httptest.NewRequest("GET", "/", nil)
	norec := httptest.NewRecorder()
	f.router.ServeHTTP(norec, req)
	if norec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list: got %d, want 401", norec.Code)
	}
}
