package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	cleanup := func() { _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "mlsvc")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/mlsvc")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:13008
}

func startServer(t *testing.T, bin string, port int, extraArgs ...string) *serverProc {
	t.Helper()
	addr := fmt.Sprintf(":%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	args := append([]string{"--addr", addr}, extraArgs...)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for /health
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, port)

	// /
	resp, body := get(t, sp.base+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/ %d %s", resp.StatusCode, string(body))
	}
	var rootResp struct {
		Service   string            `json:"service"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(body, &rootResp); err != nil {
		t.Fatalf("/ json: %v body=%s", err, string(body))
	}
	if rootResp.Service != "GRC ML Service" || len(rootResp.Endpoints) != 3 {
		t.Fatalf("unexpected root response: %+v", rootResp)
	}

	// /health
	resp, body = get(t, sp.base+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/health %d %s", resp.StatusCode, string(body))
	}
	var healthResp struct {
		Status       string `json:"status"`
		ModelsLoaded int    `json:"models_loaded"`
	}
	if err := json.Unmarshal(body, &healthResp); err != nil {
		t.Fatalf("/health json: %v body=%s", err, string(body))
	}
	if healthResp.Status != "healthy" || healthResp.ModelsLoaded != 2 {
		t.Fatalf("unexpected health response: %+v", healthResp)
	}

	// /models
	resp, body = get(t, sp.base+"/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/models %d %s", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("/models content-type=%s", ct)
	}
	var models []struct {
		ID      string `json:"id"`
		Type    string `json:"type"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(body, &models); err != nil {
		t.Fatalf("/models json: %v body=%s", err, string(body))
	}
	if len(models) != 2 || models[0].Type != "risk_prediction" || models[1].Type != "data_quality" {
		t.Fatalf("unexpected models: %+v", models)
	}

	// /models is stable across calls
	_, body2 := get(t, sp.base+"/models")
	if !bytes.Equal(body, body2) {
		t.Fatalf("/models not idempotent:\n%s\n%s", string(body), string(body2))
	}

	// /readyz
	resp, body = get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz %d %s", resp.StatusCode, string(body))
	}

	// /predict for both model types
	for _, mt := range []string{"risk_prediction", "data_quality"} {
		payload := []byte(fmt.Sprintf(`{"tenant_id":"t1","model_type":%q,"data":{}}`, mt))
		resp, body = postJSON(t, sp.base+"/predict", payload)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("/predict %s %d %s", mt, resp.StatusCode, string(body))
		}
		var pr struct {
			Prediction   float64 `json:"prediction"`
			Confidence   float64 `json:"confidence"`
			ModelVersion string  `json:"model_version"`
			Timestamp    string  `json:"timestamp"`
		}
		if err := json.Unmarshal(body, &pr); err != nil {
			t.Fatalf("/predict json: %v body=%s", err, string(body))
		}
		if pr.ModelVersion != "1.0.0-local" || pr.Timestamp == "" {
			t.Fatalf("unexpected prediction: %+v", pr)
		}
	}

	// /metrics
	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte("mlsvc_http_requests_total")) {
		t.Fatalf("/metrics missing request counter")
	}
}

func TestBlackbox_Predict_UnknownType_404(t *testing.T) {
	bin := buildBinary(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, port)

	resp, body := postJSON(t, sp.base+"/predict", []byte(`{"tenant_id":"t1","model_type":"anomaly_detection","data":{}}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d, body=%s", resp.StatusCode, string(body))
	}
	if !bytes.Contains(body, []byte("anomaly_detection")) {
		t.Fatalf("404 body should name the missing type: %s", string(body))
	}
}

func TestBlackbox_RegistryFileOverride(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	regPath := filepath.Join(dir, "registry.yaml")
	regContent := `models:
  - id: custom-1
    name: Custom Scorer
    type: custom_scoring
    status: active
    accuracy: 0.5
    version: 2.0.0
`
	if err := os.WriteFile(regPath, []byte(regContent), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, port, "--registry", regPath)

	resp, body := postJSON(t, sp.base+"/predict", []byte(`{"tenant_id":"t1","model_type":"custom_scoring","data":{}}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/predict %d %s", resp.StatusCode, string(body))
	}
	if !bytes.Contains(body, []byte("2.0.0")) {
		t.Fatalf("expected custom model version in body: %s", string(body))
	}

	// built-in types are gone with an overridden registry
	resp, _ = postJSON(t, sp.base+"/predict", []byte(`{"tenant_id":"t1","model_type":"risk_prediction","data":{}}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for replaced registry, got %d", resp.StatusCode)
	}
}
