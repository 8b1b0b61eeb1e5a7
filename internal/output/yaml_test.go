package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bmcmcm/fanout/internal/executor"
)

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewYAMLFormatter(nil)

	data := map[string]interface{}{"name": "test", "count": 2}
	if err := formatter.Format(&buf, data); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["name"] != "test" {
		t.Errorf("name = %v, want test", decoded["name"])
	}
}

func TestYAMLFormatter_FormatReport(t *testing.T) {
	report := &executor.Report{
		Results: []executor.Result{
			{Target: "api-1", Output: "healthy", Duration: 30 * time.Millisecond},
			{Target: "api-2", Err: errors.New("unreachable"), Duration: 90 * time.Millisecond},
		},
		Submitted: 2,
		Duration:  time.Second,
	}

	var buf bytes.Buffer
	formatter := NewYAMLFormatter(nil)
	if err := formatter.FormatReport(&buf, report); err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}

	results, ok := decoded["results"].([]interface{})
	if !ok || len(results) != 2 {
		t.Fatalf("results = %v, want two entries", decoded["results"])
	}

	first := results[0].(map[string]interface{})
	if first["target"] != "api-1" || first["output"] != "healthy" {
		t.Errorf("first result = %v", first)
	}

	if decoded["duration"] != "1s" {
		t.Errorf("duration = %v, want 1s", decoded["duration"])
	}
}
