package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buildflow-backend/application/services"
	"buildflow-backend/infrastructure/config"
	"buildflow-backend/infrastructure/persistence/memory"
	"buildflow-backend/pkg/auth"
	"buildflow-backend/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const routerTestSecret = "router-test-secret"

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	cfg := &config.Config{
		Environment:    "test",
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
	}

	repo := memory.NewProjectRepository()
	service := services.NewProjectService(repo, nil, nil, zap.NewNop())

	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: routerTestSecret})
	require.NoError(t, err)

	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SecretKey:  routerTestSecret,
		ExpiryTime: time.Hour,
	})
	require.NoError(t, err)
	token, err := generator.GenerateToken("user-1", "u@example.com", nil)
	require.NoError(t, err)

	router := NewRouter(cfg, service, validator, zap.NewNop())
	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)

	return server, token
}

func doRequest(t *testing.T, method, url, token string, body []byte) (*http.Response, common.APIResponse) {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope common.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestRouter_HealthIsUnauthenticated(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_APIRejectsMissingToken(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Catalog(t *testing.T) {
	server, token := newTestServer(t)

	resp, envelope := doRequest(t, http.MethodGet, server.URL+"/api/v1/catalog", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data)
}

func TestRouter_NodeAndEdgeFlow(t *testing.T) {
	server, token := newTestServer(t)
	base := server.URL + "/api/v1/projects/p1"

	// Create two nodes.
	resp, envelope := doRequest(t, http.MethodPost, base+"/nodes", token,
		[]byte(`{"type":"service","x":0,"y":0}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	nodeA := envelope.Data.(map[string]interface{})["id"].(string)

	resp, envelope = doRequest(t, http.MethodPost, base+"/nodes", token,
		[]byte(`{"type":"database","x":100,"y":0}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	nodeB := envelope.Data.(map[string]interface{})["id"].(string)

	// Connect them.
	resp, envelope = doRequest(t, http.MethodPost, base+"/edges", token,
		[]byte(fmt.Sprintf(`{"source":%q,"target":%q}`, nodeA, nodeB)))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	edge := envelope.Data.(map[string]interface{})
	assert.Equal(t, "smoothstep", edge["type"])

	// Patch node data.
	resp, envelope = doRequest(t, http.MethodPatch, base+"/nodes/"+nodeA, token,
		[]byte(`{"description":"handles checkout"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := envelope.Data.(map[string]interface{})["data"].(map[string]interface{})
	assert.Equal(t, "handles checkout", data["description"])
	assert.Equal(t, "Service", data["name"], "name survives a description patch")

	// Snapshot reflects everything.
	resp, envelope = doRequest(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := envelope.Data.(map[string]interface{})
	assert.Len(t, snap["nodes"], 2)
	assert.Len(t, snap["edges"], 1)

	// Deleting a node cascades its edges.
	resp, _ = doRequest(t, http.MethodDelete, base+"/nodes/"+nodeA, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope = doRequest(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = envelope.Data.(map[string]interface{})
	assert.Len(t, snap["nodes"], 1)
	assert.Empty(t, snap["edges"])
}

func TestRouter_ValidationErrors(t *testing.T) {
	server, token := newTestServer(t)
	base := server.URL + "/api/v1/projects/p1"

	// Missing required type.
	resp, envelope := doRequest(t, http.MethodPost, base+"/nodes", token,
		[]byte(`{"x":0,"y":0}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)

	// Unknown node id.
	resp, _ = doRequest(t, http.MethodPatch, base+"/nodes/ghost", token,
		[]byte(`{"name":"x"}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Snapshot with a foreign version.
	resp, _ = doRequest(t, http.MethodPut, base, token,
		[]byte(`{"version":99,"nodes":[],"edges":[]}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_Operations(t *testing.T) {
	server, token := newTestServer(t)
	base := server.URL + "/api/v1/projects/p1"

	resp, envelope := doRequest(t, http.MethodPost, base+"/operations", token,
		[]byte(`[
			{"op":"add_node","payload":{"type":"postgres","position":{"x":0,"y":0}}},
			{"op":"add_node","payload":{"type":"service","position":{"x":100,"y":0}}},
			{"op":"delete_node","payload":{"id":"ghost"}}
		]`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := envelope.Data.([]interface{})
	require.Len(t, results, 3)
	assert.Equal(t, true, results[0].(map[string]interface{})["applied"])
	assert.Equal(t, false, results[2].(map[string]interface{})["applied"])

	// The deploy plan sees the nodes created by the batch.
	resp, envelope = doRequest(t, http.MethodGet, base+"/deploy/plan", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	plan := envelope.Data.(map[string]interface{})
	assert.Len(t, plan["databases"], 1)
	assert.Len(t, plan["services"], 1)

	// Planning records metadata readable through the status endpoint.
	resp, envelope = doRequest(t, http.MethodGet, base+"/deploy/status", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := envelope.Data.(map[string]interface{})
	assert.Equal(t, true, status["deployed"])
	assert.NotNil(t, status["metadata"])
}

func TestRouter_DeployStatusBeforePlan(t *testing.T) {
	server, token := newTestServer(t)
	base := server.URL + "/api/v1/projects/p1"

	resp, envelope := doRequest(t, http.MethodPost, base+"/nodes", token,
		[]byte(`{"type":"service","x":0,"y":0}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope = doRequest(t, http.MethodGet, base+"/deploy/status", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := envelope.Data.(map[string]interface{})
	assert.Equal(t, false, status["deployed"])
}
