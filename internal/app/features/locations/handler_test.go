package locations_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	locationsfeature "github.com/tracknarino/backend/internal/app/features/locations"
	locationstore "github.com/tracknarino/backend/internal/app/store/locations"
	userstore "github.com/tracknarino/backend/internal/app/store/users"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/domain/models"
	"github.com/tracknarino/backend/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	router        http.Handler
	driver        models.User
	driverTok     string
	contractorTok string
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	users := userstore.New(db)
	locations := locationstore.New(db)
	tokens, err := sysauth.NewManager("test-secret-for-location-feature", time.Hour)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	driver, err := users.Create(ctx, testutil.DriverFixture())
	if err != nil {
		t.Fatalf("creating driver: %v", err)
	}
	contractor, err := users.Create(ctx, testutil.ContractorFixture())
	if err != nil {
		t.Fatalf("creating contractor: %v", err)
	}
	driverTok, err := tokens.Issue(driver.ID.Hex(), driver.Role)
	if err != nil {
		t.Fatalf("issuing driver token: %v", err)
	}
	contractorTok, err := tokens.Issue(contractor.ID.Hex(), contractor.Role)
	if err != nil {
		t.Fatalf("issuing contractor token: %v", err)
	}

	h := locationsfeature.NewHandler(locations, log)
	return fixture{
		router:        locationsfeature.Routes(h, tokens, log),
		driver:        driver,
		driverTok:     driverTok,
		contractorTok: contractorTok,
	}
}

func (f fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateAcceptsBothKeyPairs(t *testing.T) {
	f := setup(t)

	if rec := f.do("POST", "/actualizar", f.driverTok, `{"lat": 1.2136, "lng": -77.2811}`); rec.Code != http.StatusCreated {
		t.Fatalf("actualizar with lat/lng: got %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := f.do("POST", "/actualizar", f.driverTok, `{"latitud": 0.8302, "longitud": -77.6444}`); rec.Code != http.StatusCreated {
		t.Fatalf("actualizar with latitud/longitud: got %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := f.do("POST", "/actualizar", f.driverTok, `{"latitud": 0.8302}`); rec.Code != http.StatusBadRequest {
		t.Errorf("actualizar with half a pair: got %d, want 400", rec.Code)
	}

	// The latest ping is the second one.
	rec := f.do("GET", "/ultima/"+f.driver.ID.Hex(), f.contractorTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ultima: got %d, body %s", rec.Code, rec.Body.String())
	}
	var ping models.LocationPing
	if err := json.Unmarshal(rec.Body.Bytes(), &ping); err != nil {
		t.Fatalf("decoding ultima response: %v", err)
	}
	if ping.Coords.Lat != 0.8302 {
		t.Errorf("latest ping lat: got %v, want 0.8302", ping.Coords.Lat)
	}
}

func TestLatestIsContractorOnly(t *testing.T) {
	f := setup(t)

	if rec := f.do("POST", "/actualizar", f.driverTok, `{"lat": 1.2136, "lng": -77.2811}`); rec.Code != http.StatusCreated {
		t.Fatalf("actualizar: got %d", rec.Code)
	}
	if rec := f.do("GET", "/ultima/"+f.driver.ID.Hex(), f.driverTok, ""); rec.Code != http.StatusForbidden {
		t.Errorf("ultima as driver: got %d, want 403", rec.Code)
	}
}
