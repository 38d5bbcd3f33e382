package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONCarriesServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Service: "weft-casd", JSON: true, Output: &buf})
	log.Info("listening", "addr", "127.0.0.1:7777")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["service"] != "weft-casd" {
		t.Fatalf("service attr = %v, want weft-casd", rec["service"])
	}
	if rec["msg"] != "listening" {
		t.Fatalf("msg = %v", rec["msg"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info record not filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestDiscardDropsRecords(t *testing.T) {
	Discard().Error("nothing to see")
}
