package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"centro-adopcion/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier:   nil,  // modo dev: headers X-Debug-*
		SolicitudesRPS: 1000, // sin throttling en tests
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_CicloDeSolicitud(t *testing.T) {
	ts := newTestServer(t)

	// 1) Admin da de alta dos perritos
	lunaID, lunaSlug := crearPerrito(t, ts.URL, map[string]any{
		"nombre":  "Luna",
		"raza":    "mestiza",
		"tamanio": "mediano",
		"energia": "alta",
	})
	_, _ = crearPerrito(t, ts.URL, map[string]any{
		"nombre":  "Rocky",
		"raza":    "labrador",
		"tamanio": "grande",
		"energia": "alta",
	})

	// 2) Público ve el catálogo con los dos disponibles
	{
		st, body := doReq(t, ts.URL, "GET", "/api/perritos", "", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing perritos, got %d body=%s", st, string(body))
		}
		var resp struct {
			Total int `json:"total"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Total != 2 {
			t.Fatalf("expected total=2, got %d body=%s", resp.Total, string(body))
		}
	}

	// 3) El detalle trae similares y suma vistas
	{
		st, body := doReq(t, ts.URL, "GET", "/api/perritos/"+lunaSlug, "", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detalle, got %d body=%s", st, string(body))
		}
		var resp struct {
			Perrito struct {
				Vistas int `json:"vistas"`
			} `json:"perrito"`
			Similares []struct {
				Nombre string `json:"nombre"`
			} `json:"similares"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Perrito.Vistas != 1 {
			t.Fatalf("expected vistas=1, got %d", resp.Perrito.Vistas)
		}
		if len(resp.Similares) != 1 || resp.Similares[0].Nombre != "Rocky" {
			t.Fatalf("expected Rocky como similar, body=%s", string(body))
		}
	}

	// 4) Público crea solicitud => pending
	solID := crearSolicitud(t, ts.URL, map[string]any{
		"perritoId": lunaID,
		"nombre":    "Ana Pérez",
		"telefono":  "555-0101",
		"email":     "ana@example.com",
		"motivo":    "tengo patio grande",
	})

	// 5) Admin la ve con el resumen del perrito
	{
		st, body := doReq(t, ts.URL, "GET", "/api/solicitudes/"+solID, "admin-1", "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get solicitud, got %d body=%s", st, string(body))
		}
		var resp struct {
			Estado  string `json:"estado"`
			Perrito struct {
				Nombre string `json:"nombre"`
			} `json:"perrito"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Estado != "pending" {
			t.Fatalf("expected estado pending, got %q", resp.Estado)
		}
		if resp.Perrito.Nombre != "Luna" {
			t.Fatalf("expected perrito Luna, body=%s", string(body))
		}
	}

	// 6) Rechazo: queda motivoRechazo y el perrito NO cambia
	{
		st, body := doReq(t, ts.URL, "PATCH", "/api/solicitudes/"+solID, "admin-1", "admin", map[string]any{
			"estado":        "rejected",
			"motivoRechazo": "no cumple requisitos",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch rejected, got %d body=%s", st, string(body))
		}
		var resp struct {
			Estado        string  `json:"estado"`
			MotivoRechazo *string `json:"motivoRechazo"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Estado != "rejected" || resp.MotivoRechazo == nil || *resp.MotivoRechazo != "no cumple requisitos" {
			t.Fatalf("unexpected transition body=%s", string(body))
		}
	}
	if estado := estadoPerrito(t, ts.URL, lunaSlug); estado != "available" {
		t.Fatalf("expected perrito available tras rechazo, got %q", estado)
	}

	// 7) Aprobación: el perrito pasa a adopted (cascade)
	{
		st, body := doReq(t, ts.URL, "PATCH", "/api/solicitudes/"+solID, "admin-1", "admin", map[string]any{
			"estado": "approved",
			"notas":  "entrevista ok",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch approved, got %d body=%s", st, string(body))
		}
	}
	if estado := estadoPerrito(t, ts.URL, lunaSlug); estado != "adopted" {
		t.Fatalf("expected perrito adopted tras aprobación, got %q", estado)
	}

	// 8) Las notas quedan en el historial, la más nueva primero
	{
		st, body := doReq(t, ts.URL, "GET", "/api/solicitudes/"+solID, "admin-1", "admin", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get solicitud, got %d body=%s", st, string(body))
		}
		var resp struct {
			Notas []struct {
				Autor     string `json:"autor"`
				Contenido string `json:"contenido"`
				Tipo      string `json:"tipo"`
			} `json:"notas"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Notas) != 1 || resp.Notas[0].Contenido != "entrevista ok" || resp.Notas[0].Tipo != "interna" {
			t.Fatalf("unexpected notas body=%s", string(body))
		}
	}
}

func TestHTTP_Solicitudes_Errores(t *testing.T) {
	ts := newTestServer(t)

	// perrito inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/solicitudes", "", "", map[string]any{
			"perritoId": "no-existe",
			"nombre":    "Ana",
			"telefono":  "555",
			"email":     "a@b.c",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 perrito inexistente, got %d", st)
		}
	}

	// solicitud inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/solicitudes/no-existe", "admin-1", "admin", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 solicitud inexistente, got %d", st)
		}
	}

	// estado fuera del set => 400
	perritoID, _ := crearPerrito(t, ts.URL, map[string]any{"nombre": "Toby"})
	solID := crearSolicitud(t, ts.URL, map[string]any{
		"perritoId": perritoID,
		"nombre":    "Ana",
		"telefono":  "555",
		"email":     "a@b.c",
	})
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/api/solicitudes/"+solID, "admin-1", "admin", map[string]any{
			"estado": "archived",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 estado desconocido, got %d", st)
		}
	}

	// sin rol admin => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/admin/solicitudes", "user-1", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 sin rol admin, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/api/solicitudes/"+solID, "user-1", "", map[string]any{
			"estado": "approved",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 patch sin admin, got %d", st)
		}
	}
}

func TestHTTP_AdminSolicitudes_Paginacion(t *testing.T) {
	ts := newTestServer(t)

	perritoID, _ := crearPerrito(t, ts.URL, map[string]any{"nombre": "Toby"})
	for i := 0; i < 5; i++ {
		crearSolicitud(t, ts.URL, map[string]any{
			"perritoId": perritoID,
			"nombre":    "Solicitante",
			"telefono":  "555",
			"email":     "s@example.com",
		})
	}

	st, body := doReq(t, ts.URL, "GET", "/api/admin/solicitudes?page=2&limit=2", "admin-1", "admin", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
	}

	var resp struct {
		Solicitudes []any `json:"solicitudes"`
		Total       int   `json:"total"`
		Page        int   `json:"page"`
		Limit       int   `json:"limit"`
		TotalPages  int   `json:"totalPages"`
	}
	_ = json.Unmarshal(body, &resp)

	if resp.Total != 5 || resp.Page != 2 || resp.Limit != 2 {
		t.Fatalf("unexpected paging body=%s", string(body))
	}
	if len(resp.Solicitudes) != 2 {
		t.Fatalf("expected 2 items en page 2, got %d", len(resp.Solicitudes))
	}
	if resp.TotalPages != 3 {
		t.Fatalf("expected totalPages=3, got %d", resp.TotalPages)
	}
}

func TestHTTP_Comercios_TrackIncrementa(t *testing.T) {
	ts := newTestServer(t)

	// alta admin
	st, body := doReq(t, ts.URL, "POST", "/api/comercios", "admin-1", "admin", map[string]any{
		"nombre":    "Café Patitas",
		"categoria": "cafetería",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 crear comercio, got %d body=%s", st, string(body))
	}
	var creado struct {
		Slug string `json:"slug"`
	}
	_ = json.Unmarshal(body, &creado)
	if creado.Slug == "" {
		t.Fatalf("crear comercio: missing slug body=%s", string(body))
	}

	// dos tracks => qrEscaneos = 2
	for i := 1; i <= 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/api/comercios/"+creado.Slug+"/track", "", "", map[string]any{
			"fuente": "qr",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 track, got %d body=%s", st, string(body))
		}
		var resp struct {
			QREscaneos int `json:"qrEscaneos"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.QREscaneos != i {
			t.Fatalf("expected qrEscaneos=%d, got %d", i, resp.QREscaneos)
		}
	}

	// alta sin admin => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/comercios", "user-1", "", map[string]any{
			"nombre": "Otro",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 crear comercio sin admin, got %d", st)
		}
	}
}

func TestHTTP_Noticias_PublicoSoloVePublicadas(t *testing.T) {
	ts := newTestServer(t)

	crearNoticia(t, ts.URL, map[string]any{"titulo": "Jornada de adopción", "publicada": true})
	crearNoticia(t, ts.URL, map[string]any{"titulo": "Borrador interno", "publicada": false})

	st, body := doReq(t, ts.URL, "GET", "/api/noticias", "", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 noticias públicas, got %d body=%s", st, string(body))
	}
	var resp struct {
		Noticias []struct {
			Titulo string `json:"titulo"`
		} `json:"noticias"`
		Total int `json:"total"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Total != 1 || len(resp.Noticias) != 1 || resp.Noticias[0].Titulo != "Jornada de adopción" {
		t.Fatalf("público debería ver solo publicadas, body=%s", string(body))
	}

	// el back office ve todo
	st, body = doReq(t, ts.URL, "GET", "/api/admin/noticias", "admin-1", "admin", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 admin noticias, got %d body=%s", st, string(body))
	}
	var adminResp struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(body, &adminResp)
	if adminResp.Total != 2 {
		t.Fatalf("admin debería ver 2 noticias, got %d", adminResp.Total)
	}
}

func TestHTTP_Track_NuncaFalla(t *testing.T) {
	ts := newTestServer(t)

	// sin campaña que matchee => tracked:false, 200 igual
	st, body := doReq(t, ts.URL, "POST", "/api/track", "", "", map[string]any{
		"utm_source":   "facebook",
		"utm_medium":   "social",
		"utm_campaign": "adopta2025",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 track sin campaña, got %d body=%s", st, string(body))
	}
	var resp struct {
		Tracked bool `json:"tracked"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Tracked {
		t.Fatalf("expected tracked=false sin campaña activa")
	}

	// con campaña activa => tracked:true
	{
		st, body := doReq(t, ts.URL, "POST", "/api/admin/campanias", "admin-1", "admin", map[string]any{
			"nombre":       "Adopta 2025",
			"utm_source":   "facebook",
			"utm_medium":   "social",
			"utm_campaign": "adopta2025",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 crear campaña, got %d body=%s", st, string(body))
		}
	}
	st, body = doReq(t, ts.URL, "POST", "/api/track", "", "", map[string]any{
		"utm_source":   "facebook",
		"utm_medium":   "social",
		"utm_campaign": "adopta2025",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 track, got %d body=%s", st, string(body))
	}
	_ = json.Unmarshal(body, &resp)
	if !resp.Tracked {
		t.Fatalf("expected tracked=true con campaña activa, body=%s", string(body))
	}

	// body roto tampoco rompe
	req, _ := http.NewRequest("POST", ts.URL+"/api/track", bytes.NewReader([]byte("{{{")))
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 con body inválido, got %d", res.StatusCode)
	}
}

func crearPerrito(t *testing.T, baseURL string, payload map[string]any) (string, string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/admin/perritos", "admin-1", "admin", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 crear perrito, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" || resp.Slug == "" {
		t.Fatalf("crear perrito: missing id/slug body=%s", string(body))
	}
	return resp.ID, resp.Slug
}

func crearSolicitud(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/solicitudes", "", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 crear solicitud, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("crear solicitud: missing id body=%s", string(body))
	}
	return resp.ID
}

func crearNoticia(t *testing.T, baseURL string, payload map[string]any) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/admin/noticias", "admin-1", "admin", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 crear noticia, got %d body=%s", st, string(body))
	}
}

func estadoPerrito(t *testing.T, baseURL, slug string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/api/perritos/"+slug, "", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 detalle perrito, got %d body=%s", st, string(body))
	}

	var resp struct {
		Perrito struct {
			Estado string `json:"estado"`
		} `json:"perrito"`
	}
	_ = json.Unmarshal(body, &resp)
	return resp.Perrito.Estado
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugRol string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugRol != "" {
		req.Header.Set("X-Debug-Rol", debugRol)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
