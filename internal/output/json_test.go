package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bmcmcm/fanout/internal/executor"
)

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(nil)

	data := map[string]interface{}{"name": "test", "count": 2}
	if err := formatter.Format(&buf, data); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["name"] != "test" {
		t.Errorf("name = %v, want test", decoded["name"])
	}
}

func TestJSONFormatter_FormatReport(t *testing.T) {
	report := &executor.Report{
		Results: []executor.Result{
			{Target: "db-1", Output: "ok", Duration: 50 * time.Millisecond},
			{Target: "db-2", Err: errors.New("timeout"), Duration: time.Second},
		},
		Submitted: 2,
		Evicted:   1,
		Duration:  2 * time.Second,
	}

	var buf bytes.Buffer
	formatter := NewJSONFormatter(nil)
	if err := formatter.FormatReport(&buf, report); err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	results, ok := decoded["results"].([]interface{})
	if !ok || len(results) != 2 {
		t.Fatalf("results = %v, want two entries", decoded["results"])
	}

	first := results[0].(map[string]interface{})
	if first["target"] != "db-1" || first["status"] != "success" {
		t.Errorf("first result = %v", first)
	}

	second := results[1].(map[string]interface{})
	if second["status"] != "failed" || second["error"] != "timeout" {
		t.Errorf("second result = %v", second)
	}

	if decoded["evicted"] != float64(1) {
		t.Errorf("evicted = %v, want 1", decoded["evicted"])
	}
}
