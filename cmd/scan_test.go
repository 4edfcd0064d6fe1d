package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScanTestCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "scan"}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	cmd.Flags().BoolP("count", "c", false, "")
	return cmd
}

func TestScanText(t *testing.T) {
	setupLocalOnlyConfig(t)

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log",
		"alice@example.com logged in\nGET /health from 203.0.113.5\n")

	var out bytes.Buffer
	cmd := newScanTestCmd(&out)

	if err := runScan(cmd, []string{file}); err != nil {
		t.Fatalf("runScan() error = %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "alice@example.com -> user1@example.com") {
		t.Errorf("expected email finding, got:\n%s", output)
	}
	if !strings.Contains(output, "203.0.113.5 -> 10.0.0.1") {
		t.Errorf("expected IP finding, got:\n%s", output)
	}
}

func TestScanCount(t *testing.T) {
	setupLocalOnlyConfig(t)

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log",
		"alice@example.com logged in from 203.0.113.5\n")

	var out bytes.Buffer
	cmd := newScanTestCmd(&out)
	if err := cmd.Flags().Set("count", "true"); err != nil {
		t.Fatal(err)
	}

	if err := runScan(cmd, []string{file}); err != nil {
		t.Fatalf("runScan() error = %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "2" {
		t.Errorf("count output = %q, want 2", got)
	}
}

func TestScanJSON(t *testing.T) {
	setupLocalOnlyConfig(t)
	viper.Set("format", "json")

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log", "alice@example.com logged in\n")

	var out bytes.Buffer
	cmd := newScanTestCmd(&out)

	if err := runScan(cmd, []string{file}); err != nil {
		t.Fatalf("runScan() error = %v", err)
	}

	var mappings []map[string]string
	if err := json.Unmarshal(out.Bytes(), &mappings); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	if len(mappings) != 1 || mappings[0]["type"] != "Local.Email" {
		t.Errorf("mappings = %v", mappings)
	}
}

func TestScanRespectsDetectionToggles(t *testing.T) {
	setupLocalOnlyConfig(t)
	viper.Set("detection.ips", false)

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log", "request from 203.0.113.5\n")

	var out bytes.Buffer
	cmd := newScanTestCmd(&out)
	if err := cmd.Flags().Set("count", "true"); err != nil {
		t.Fatal(err)
	}

	if err := runScan(cmd, []string{file}); err != nil {
		t.Fatalf("runScan() error = %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "0" {
		t.Errorf("count output = %q, want 0 with ips disabled", got)
	}
}
