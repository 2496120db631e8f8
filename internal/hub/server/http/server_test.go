package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoscope-io/autoscope/internal/hub/core/service"
	"github.com/autoscope-io/autoscope/internal/hub/seed"
)

const testSeed = `
areas:
  - id: Chassis
    name: Chassis Zone
    components: [Brakes, Steering]
components:
  - id: Brakes
    name: Brake Control Unit
    architecture: autosar_classic
    ident_data: {PartNumber: BRK-2024-ABS}
    current_data: {TempC: 48}
    sys_info: {Vendor: Example AG}
    bulk_categories: [fault_memory]
    faults:
      - code: P0571
        name: Brake Switch A Circuit
        severity: 2
        status: active
      - code: P0572
        name: Brake Switch A Circuit Low
        severity: 1
        status: pending
  - id: Steering
    name: Steering Control Unit
    architecture: autosar_adaptive
    bulk_categories: [persistency]
apps:
  - id: BrakeMonitor
    name: Brake Monitor Daemon
    host: Brakes
    data: {Version: 1.4.2}
functions:
  - id: EmergencyStop
    name: Emergency Stop
    participants: [Brakes, Steering]
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	doc, err := seed.Parse([]byte(testSeed))
	require.NoError(t, err)
	st, registry, err := seed.Build(doc)
	require.NoError(t, err)

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "classic/Brakes/fault_memory/freeze.json", []byte(`{"frame":1}`), 0o644))

	svc := service.New(st, registry, fs, nil)

	srv := httptest.NewServer(NewRouter(svc))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type refList struct {
	Items []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Href string `json:"href"`
	} `json:"items"`
}

func TestChassisBrakesScenario(t *testing.T) {
	srv := newTestServer(t)

	// Areas listing includes Chassis with a resolvable href.
	var areas refList
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/areas", &areas))
	require.Len(t, areas.Items, 1)
	assert.Equal(t, "Chassis", areas.Items[0].ID)
	assert.Equal(t, "/api/v1/areas/Chassis", areas.Items[0].Href)

	// The area's components relation lists Brakes and Steering in order.
	var comps refList
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/areas/Chassis/components", &comps))
	require.Len(t, comps.Items, 2)
	assert.Equal(t, "Brakes", comps.Items[0].ID)
	assert.Equal(t, "Steering", comps.Items[1].ID)

	// Single data read resolves the live value.
	var data struct {
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/components/Brakes/data/TempC", &data))
	assert.Equal(t, "TempC", data.ID)
	assert.Equal(t, "48", string(data.Data))

	// Status filter narrows the fault listing to the active fault.
	var faults struct {
		Items []struct {
			Code   string `json:"code"`
			Status struct {
				AggregatedStatus string `json:"aggregatedStatus"`
			} `json:"status"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/components/Brakes/faults?status=active", &faults))
	require.Len(t, faults.Items, 1)
	assert.Equal(t, "P0571", faults.Items[0].Code)
	assert.Equal(t, "active", faults.Items[0].Status.AggregatedStatus)

	// Bulk categories and artifact download.
	var cats struct {
		Items []string `json:"items"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/components/Brakes/bulk-data", &cats))
	assert.Equal(t, []string{"fault_memory"}, cats.Items)

	resp, err := http.Get(srv.URL + "/api/v1/components/Brakes/bulk-data/fault_memory/freeze.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.NotEmpty(t, resp.Header.Get("Last-Modified"))
}

func TestErrorCodeMapping(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown entity", "/api/v1/components/Gearbox", http.StatusNotFound, "not_found"},
		{"unknown data key", "/api/v1/components/Brakes/data/NoSuchKey", http.StatusNotFound, "data_not_found"},
		{"undeclared category", "/api/v1/components/Brakes/bulk-data/telemetry", http.StatusForbidden, "category_not_allowed"},
		{"missing file", "/api/v1/components/Brakes/bulk-data/fault_memory/ghost.bin", http.StatusNotFound, "file_not_found"},
		{"backslash path", "/api/v1/components/Brakes/bulk-data/fault_memory/%5Cwindows%5Cpath", http.StatusForbidden, "path_traversal_denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			status := getJSON(t, srv.URL+tt.path, &body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestDotDotNeverReachesTheFilesystem(t *testing.T) {
	srv := newTestServer(t)

	// The router normalizes dotted paths away before routing; whatever route
	// the cleaned path lands on, the artifact outside the category must not
	// be served.
	resp, err := http.Get(srv.URL + "/api/v1/components/Brakes/bulk-data/fault_memory/../../../secret")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownCollectionListsEmpty(t *testing.T) {
	srv := newTestServer(t)

	var out refList
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/gadgets", &out))
	assert.Empty(t, out.Items)
}

func TestInvalidFaultFilters(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v1/components/Brakes/faults?status=flaky", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v1/components/Brakes/faults?severity=high", nil))
}

func TestExecutionLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/components/Brakes/operations/ecu_reset/executions", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var status struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.NotEmpty(t, status.ID)
	assert.Equal(t, "running", status.Status)

	pollURL := srv.URL + "/api/v1/components/Brakes/operations/ecu_reset/executions/" + status.ID
	require.Eventually(t, func() bool {
		var polled struct {
			Status string `json:"status"`
		}
		if getJSON(t, pollURL, &polled) != http.StatusOK {
			return false
		}
		return polled.Status == "succeeded"
	}, 3*time.Second, 25*time.Millisecond)
}

func TestHealthProbes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
