package alerts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	alertsfeature "github.com/tracknarino/backend/internal/app/features/alerts"
	alertstore "github.com/tracknarino/backend/internal/app/store/alerts"
	userstore "github.com/tracknarino/backend/internal/app/store/users"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/domain/models"
	"github.com/tracknarino/backend/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	router http.Handler
	token  string
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	users := userstore.New(db)
	alerts := alertstore.New(db)
	tokens, err := sysauth.NewManager("test-secret-for-alert-feature", time.Hour)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	driver, err := users.Create(ctx, testutil.DriverFixture())
	if err != nil {
		t.Fatalf("creating driver: %v", err)
	}
	token, err := tokens.Issue(driver.ID.Hex(), driver.Role)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	h := alertsfeature.NewHandler(alerts, 50_000, 24*time.Hour, log)
	return fixture{router: alertsfeature.Routes(h, tokens, log), token: token}
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestNearbyRadiusIsMeters(t *testing.T) {
	f := setup(t)

	// One alert at the query point, one roughly 5.5 km north of it.
	center := `{"tipo": "obstaculo", "descripcion": "derrumbe", "coords": {"lat": 1.2136, "lng": -77.2811}}`
	north := `{"tipo": "trancon", "descripcion": "fila larga", "coords": {"lat": 1.2636, "lng": -77.2811}}`
	if rec := f.do("POST", "/crear", center); rec.Code != http.StatusCreated {
		t.Fatalf("create center alert: got %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := f.do("POST", "/crear", north); rec.Code != http.StatusCreated {
		t.Fatalf("create north alert: got %d, body %s", rec.Code, rec.Body.String())
	}

	// A 1000 m radius keeps only the alert at the query point. Were radio
	// read as kilometers, both would come back.
	rec := f.do("POST", "/cercanas", `{"lat": 1.2136, "lng": -77.2811, "radio": 1000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("cercanas: got %d, body %s", rec.Code, rec.Body.String())
	}
	var got []models.SafetyAlert
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding cercanas response: %v", err)
	}
	if len(got) != 1 || got[0].Type != "obstaculo" {
		t.Errorf("cercanas with 1000 m radius: got %d alerts %+v, want the center one", len(got), got)
	}

	// The query-parameter form reads radio in meters too.
	rec = f.do("GET", "/cercanas?lat=1.2136&lng=-77.2811&radio=1000", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cercanas GET: got %d, body %s", rec.Code, rec.Body.String())
	}
	got = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding cercanas GET response: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("cercanas GET with 1000 m radius: got %d alerts, want 1", len(got))
	}

	// A wide radius reaches both.
	rec = f.do("POST", "/cercanas", `{"lat": 1.2136, "lng": -77.2811, "radio": 10000}`)
	got = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding wide cercanas response: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("cercanas with 10000 m radius: got %d alerts, want 2", len(got))
	}
}

func TestListAliases(t *testing.T) {
	f := setup(t)

	body := `{"tipo": "clima", "descripcion": "niebla densa", "coords": {"lat": 0.8302, "lng": -77.6444}}`
	if rec := f.do("POST", "/crear", body); rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}

	for _, path := range []string{"/", "/listar", "/recientes"} {
		rec := f.do("GET", path, "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "niebla densa") {
			t.Errorf("GET %s: got %d, body %s", path, rec.Code, rec.Body.String())
		}
	}
}
