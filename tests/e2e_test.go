package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type farmGateContainer struct {
	testcontainers.Container
	URI string
}

func setupFarmGate(ctx context.Context, t *testing.T) (*farmGateContainer, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "test-secret"
	}

	natPort := nat.Port(port + "/tcp")

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    "../",
			Dockerfile: "Dockerfile",
		},
		ExposedPorts: []string{string(natPort)},
		Files: []testcontainers.ContainerFile{
			{
				HostFilePath:      "testdata/seed.json",
				ContainerFilePath: "/app/seed.json",
				FileMode:          0o644,
			},
		},
		Env: map[string]string{
			"PORT":               port,
			"GIN_MODE":           "release",
			"DATABASE_URL":       "sqlite:/app/farmgate.db",
			"JWT_SECRET":         jwtSecret,
			"EXPORT_SIGNING_KEY": "e2e-signing-key",
			"TEST_MODE":          "true",
		},
		WaitingFor: wait.ForHTTP("/").
			WithPort(natPort).
			WithStatusCodeMatcher(func(status int) bool {
				return status == 200 || status == 404
			}).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})

	var farmGateC *farmGateContainer
	if container != nil {
		farmGateC = &farmGateContainer{Container: container}
	}
	if err != nil {
		return farmGateC, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return farmGateC, err
	}

	mappedPort, err := container.MappedPort(ctx, natPort)
	if err != nil {
		return farmGateC, err
	}

	// Seed farm-1 and farmer-1 through the import command so the
	// market projection has contact details to denormalize.
	exitCode, _, err := container.Exec(ctx, []string{"./farmgate", "import", "--file", "/app/seed.json"})
	if err != nil {
		return farmGateC, err
	}
	if exitCode != 0 {
		return farmGateC, fmt.Errorf("seed import exited with code %d", exitCode)
	}

	farmGateC.URI = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return farmGateC, nil
}

func doJSON(t *testing.T, method, url, body, testEmail string) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if testEmail != "" {
		req.Header.Set("X-Test-Email", testEmail)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Logf("Response body: %s", string(raw))
			require.NoError(t, err)
		}
	}
	return resp, result
}

func TestE2E_RegisterAndLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	farmGateC, err := setupFarmGate(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, farmGateC)

	resp, result := doJSON(t, http.MethodPost, farmGateC.URI+"/api/v1/auth/register",
		`{"email": "ada@example.com", "username": "ada", "password": "p4ssword"}`, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered.", result["message"])
	assert.Equal(t, "Success", result["status"])

	resp, result = doJSON(t, http.MethodPost, farmGateC.URI+"/api/v1/auth/login",
		`{"email": "ada@example.com", "password": "p4ssword"}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token, ok := result["access_token"].(string)
	assert.True(t, ok, "access_token should be a string")
	assert.NotEmpty(t, token)
}

func TestE2E_RegisterDuplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	farmGateC, err := setupFarmGate(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, farmGateC)

	body := `{"email": "bola@example.com", "username": "bola", "password": "p4ssword"}`

	resp, _ := doJSON(t, http.MethodPost, farmGateC.URI+"/api/v1/auth/register", body, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, result := doJSON(t, http.MethodPost, farmGateC.URI+"/api/v1/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", result["message"])
}

func TestE2E_InventoryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	farmGateC, err := setupFarmGate(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, farmGateC)

	base := farmGateC.URI + "/api/v1/farms/farm-1/farmers/farmer-1/inventory"

	resp, result := doJSON(t, http.MethodPost, base,
		`{"name": "Maize", "type": "grain", "unit": "kg", "quantity": 100, "price": 2.5}`, "ada@example.com")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Harvest successfully added to inventory", result["message"])

	item := result["data"].(map[string]interface{})
	itemID := item["id"].(string)
	require.NotEmpty(t, itemID)

	resp, result = doJSON(t, http.MethodGet, base, "", "ada@example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	items := result["data"].([]interface{})
	assert.Len(t, items, 1)

	resp, result = doJSON(t, http.MethodPatch, base+"/"+itemID,
		`{"quantity": 80}`, "ada@example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := result["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 80.0, updated["quantity"].(float64))

	resp, result = doJSON(t, http.MethodDelete, base+"/"+itemID, "", "ada@example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Harvest deleted successfully", result["message"])

	// Absence of an item is an empty list, not an error.
	resp, result = doJSON(t, http.MethodGet, base+"/"+itemID, "", "ada@example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, result["data"])
}

func TestE2E_MarketFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	farmGateC, err := setupFarmGate(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, farmGateC)

	resp, result := doJSON(t, http.MethodPost,
		farmGateC.URI+"/api/v1/farms/farm-1/farmers/farmer-1/inventory",
		`{"name": "Yam", "unit": "tuber", "quantity": 40, "price": 1.2}`, "ada@example.com")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	itemID := result["data"].(map[string]interface{})["id"].(string)

	marketURL := farmGateC.URI + "/api/v1/farms/farm-1/inventory/" + itemID + "/market"

	resp, result = doJSON(t, http.MethodPost, marketURL, "", "ada@example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Item has been added to market", result["message"])

	// The public market page shows the listing.
	resp, result = doJSON(t, http.MethodGet, farmGateC.URI+"/api/v1/market", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	listings := result["data"].([]interface{})
	assert.Len(t, listings, 1)

	resp, result = doJSON(t, http.MethodDelete, marketURL, "", "ada@example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Item has been removed from market", result["message"])

	resp, result = doJSON(t, http.MethodGet, farmGateC.URI+"/api/v1/market", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, result["data"])
}

func TestE2E_ExportInventory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	farmGateC, err := setupFarmGate(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, farmGateC)

	base := farmGateC.URI + "/api/v1/farms/farm-1/farmers/farmer-1/inventory"

	resp, _ := doJSON(t, http.MethodPost, base,
		`{"name": "Maize", "quantity": 10, "price": 2}`, "ada@example.com")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, result := doJSON(t, http.MethodGet, base+"/export", "", "ada@example.com")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	export := result["data"].(map[string]interface{})
	assert.Equal(t, "farm-1", export["farm_id"])
	assert.Equal(t, "farmer-1", export["farmer_id"])
	assert.NotEmpty(t, export["signature"])
	assert.Len(t, export["items"].([]interface{}), 1)
}

func TestE2E_MissingAuth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	farmGateC, err := setupFarmGate(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, farmGateC)

	resp, _ := doJSON(t, http.MethodGet,
		farmGateC.URI+"/api/v1/farms/farm-1/farmers/farmer-1/inventory", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
