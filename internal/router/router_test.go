package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnipets-backend/internal/platform/logger"
)

// Los tests corren el router completo en modo dev (verifier nil =>
// X-Debug-User-ID) con repos in-memory.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(Options{Logger: logger.Nop()}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, userID string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestPetLifecycleEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	// Alta
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/pets", "ana", map[string]any{
		"name":    "Firulais",
		"species": "dog",
		"breed":   "Beagle",
		"sex":     "macho",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var pet map[string]any
	require.NoError(t, json.Unmarshal(body, &pet))
	petID := pet["id"].(string)
	require.NotEmpty(t, petID)
	assert.Equal(t, "safe", pet["status"])
	assert.Equal(t, "Macho", pet["sex"])

	// Sin auth no se lista
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/pets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Listado del dueño
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/pets", "ana", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)

	// Reporte de pérdida con coordenadas
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/pets/"+petID+"/status", "ana", map[string]any{
		"status": "lost",
		"lat":    -34.6,
		"lng":    -58.4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &pet))
	assert.Equal(t, "lost", pet["status"])
	assert.Equal(t, -34.6, pet["last_lat"])

	// Otro usuario no puede tocar el estado
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/pets/"+petID+"/status", "intruso", map[string]any{
		"status": "safe",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Aparece en la vista de comunidad
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/community/pets", "ana", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)

	// Recuperada: las coordenadas se limpian
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/pets/"+petID+"/status", "ana", map[string]any{
		"status": "safe",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pet = nil // Unmarshal sobre un map existente mezcla claves viejas.
	require.NoError(t, json.Unmarshal(body, &pet))
	assert.Nil(t, pet["last_lat"])
}

func TestAdoptionKeepsTrackingVisibility(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/pets", "ana", map[string]any{
		"name": "Michi", "species": "cat", "status": "adoption",
	})
	var pet map[string]any
	require.NoError(t, json.Unmarshal(body, &pet))
	petID := pet["id"].(string)

	// Beto adopta; no necesita ser dueño previo.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/pets/"+petID+"/adopt", "beto", map[string]any{
		"owner_name": "Beto",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &pet))
	assert.Equal(t, "beto", pet["owner_id"])
	assert.Equal(t, "ana", pet["original_owner_id"])
	assert.Equal(t, "safe", pet["status"])
	assert.NotEmpty(t, pet["tracking_end_date"])

	// Ana sigue viendo la mascota por la ventana de tracking.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/pets", "ana", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, petID, list[0]["id"])

	// Y puede abrir la ficha, pero no editarla.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/pets/"+petID, "ana", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/pets/"+petID, "ana", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSimulatedAdoptionUsesGhostOwner(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/pets", "ana", map[string]any{
		"name": "Rocky", "species": "dog",
	})
	var pet map[string]any
	require.NoError(t, json.Unmarshal(body, &pet))
	petID := pet["id"].(string)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/pets/"+petID+"/simulate-adoption", "ana", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &pet))
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", pet["owner_id"])
	assert.Equal(t, "Adoptante de Prueba", pet["owner_name"])
	assert.Equal(t, "ana", pet["original_owner_id"])
}

func TestPublicQRResolution(t *testing.T) {
	srv := newTestServer(t)

	// Perfil del dueño con teléfono para el deep link.
	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/me/profile", "ana", map[string]any{
		"first_name": "Ana",
		"phone":      "+54 9 11 2345 6789",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/pets", "ana", map[string]any{
		"name": "Firulais", "species": "dog", "status": "lost",
	})
	var pet map[string]any
	require.NoError(t, json.Unmarshal(body, &pet))
	petID := pet["id"].(string)

	// Resolución pública, sin auth.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/public/resolve?p="+petID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res map[string]any
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, true, res["found"])
	assert.Equal(t, "urgent_alert", res["view"])
	assert.Contains(t, res["contact_link"], "https://wa.me/5491123456789")

	petInfo := res["pet"].(map[string]any)
	assert.Equal(t, "Ana", petInfo["owner_first_name"])

	// URL escaneada completa con query en el fragment.
	scanned := "https://dnipets.app/%23/scan%3Fp=" + petID
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/public/resolve?u="+scanned, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, true, res["found"])

	// ID inexistente: found=false, nunca 404.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/public/resolve?p=no-existe", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, false, res["found"])
}

func TestHealthRecordsRequireOwnership(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/pets", "ana", map[string]any{
		"name": "Firulais", "species": "dog",
	})
	var pet map[string]any
	require.NoError(t, json.Unmarshal(body, &pet))
	petID := pet["id"].(string)

	record := map[string]any{
		"title": "Antirrábica",
		"type":  "vaccine",
		"date":  "2026-02-15",
	}

	// Un tercero no puede crear registros.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/pets/"+petID+"/records", "intruso", record)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/pets/"+petID+"/records", "ana", record)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(body, &rec))
	recordID := rec["id"].(string)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/pets/"+petID+"/records", "ana", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/records/"+recordID, "ana", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	// Primer GET: perfil vacío con defaults.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/me/profile", "ana", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p map[string]any
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "ana", p["uid"])
	assert.Equal(t, "+54", p["address"].(map[string]any)["country_code"])

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/me/profile", "ana", map[string]any{
		"first_name": "Ana",
		"last_name":  "García",
		"phone":      "+54 11 5555 5555",
		"address": map[string]any{
			"city":         "Buenos Aires",
			"country_code": "+54",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "Ana", p["first_name"])
	assert.Equal(t, "Buenos Aires", p["address"].(map[string]any)["city"])
}

func TestAssistantDisabledWithoutAI(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/assistant/chat", "ana", map[string]any{})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/live/ws", "ana", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
