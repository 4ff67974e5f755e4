package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gobeaver/formkit"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Setenv("BEAVER_FORMKIT_CHECKSUM_ALGORITHM", "sha256")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello")
	writeFile(t, filepath.Join(dir, "parts.yaml"), `boundary: XYZ
parts:
  - name: title
    value: Quarterly report
  - name: data
    file: a.txt
`)

	body := filepath.Join(dir, "body.bin")
	var stdout, stderr bytes.Buffer
	err := run([]string{"encode", "-m", filepath.Join(dir, "parts.yaml"), "-o", body, "--print-content-type"},
		nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("encode error = %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("encode wrote %d bytes to stdout with -o set", stdout.Len())
	}
	if got := strings.TrimSpace(stderr.String()); got != "multipart/form-data; boundary=XYZ" {
		t.Errorf("printed content type = %q", got)
	}

	outDir := filepath.Join(dir, "out")
	stdout.Reset()
	stderr.Reset()
	err = run([]string{"decode", "--content-type", "multipart/form-data; boundary=XYZ", "-i", body, "-d", outDir},
		nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("decode error = %v, stderr: %s", err, stderr.String())
	}

	var summary decodeSummary
	if err := yaml.Unmarshal(stdout.Bytes(), &summary); err != nil {
		t.Fatalf("summary is not YAML: %v\n%s", err, stdout.String())
	}
	if summary.Boundary != "XYZ" {
		t.Errorf("boundary = %q, want XYZ", summary.Boundary)
	}
	if len(summary.Parts) != 2 {
		t.Fatalf("got %d parts, want 2:\n%s", len(summary.Parts), stdout.String())
	}

	title := summary.Parts[0]
	if title.Name != "title" || title.Value != "Quarterly report" || title.ContentType != "text/plain" {
		t.Errorf("title part = %+v", title)
	}

	data := summary.Parts[1]
	if data.Name != "data" || data.FileName != "a.txt" || data.Size != 5 || data.Value != "" {
		t.Errorf("data part = %+v", data)
	}
	sum := sha256.Sum256([]byte("hello"))
	if want := "sha256:" + hex.EncodeToString(sum[:]); data.Checksum != want {
		t.Errorf("checksum = %q, want %q", data.Checksum, want)
	}
	if want := filepath.Join(outDir, "01-a.txt"); data.Path != want {
		t.Errorf("path = %q, want %q", data.Path, want)
	}
	content, err := os.ReadFile(data.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("written content = %q, want %q", content, "hello")
	}
}

func TestEncodeToStdout(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "parts.yaml")
	writeFile(t, manifestPath, "parts:\n  - name: a\n    value: \"1\"\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"encode", "-m", manifestPath, "--boundary", "B"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("encode error = %v", err)
	}

	want := formkit.NewForm("B", formkit.NewPart("a").WithContentString("1")).Bytes()
	if !bytes.Equal(stdout.Bytes(), want) {
		t.Errorf("body = %q, want %q", stdout.Bytes(), want)
	}
}

func TestDecodeStdinFilter(t *testing.T) {
	body := formkit.NewForm("B",
		formkit.NewPart("keep").WithContentString("1"),
		formkit.NewPart("drop").WithContentString("2"),
	).Bytes()

	var stdout, stderr bytes.Buffer
	err := run([]string{"decode", "--boundary", "B", "--filter", "k*"}, bytes.NewReader(body), &stdout, &stderr)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}

	var summary decodeSummary
	if err := yaml.Unmarshal(stdout.Bytes(), &summary); err != nil {
		t.Fatalf("summary is not YAML: %v", err)
	}
	if len(summary.Parts) != 1 || summary.Parts[0].Name != "keep" {
		t.Errorf("parts = %+v, want only keep", summary.Parts)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "both.yaml"), "parts:\n  - name: a\n    value: x\n    file: a.txt\n")
	writeFile(t, filepath.Join(dir, "unknown.yaml"), "parts:\n  - name: a\n    colour: red\n")

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr string
	}{
		{name: "no command", args: nil, wantErr: "usage"},
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: "unknown command"},
		{name: "encode without manifest", args: []string{"encode"}, wantErr: "--manifest is required"},
		{name: "encode extra argument", args: []string{"encode", "-m", "x.yaml", "extra"}, wantErr: "unexpected argument"},
		{name: "encode missing manifest", args: []string{"encode", "-m", filepath.Join(dir, "missing.yaml")}, wantErr: "no such file"},
		{name: "value and file", args: []string{"encode", "-m", filepath.Join(dir, "both.yaml")}, wantErr: "mutually exclusive"},
		{name: "unknown manifest field", args: []string{"encode", "-m", filepath.Join(dir, "unknown.yaml")}, wantErr: "parsing manifest"},
		{name: "boundary and content type", args: []string{"decode", "--boundary", "B", "--content-type", "multipart/form-data; boundary=B"}, wantErr: "mutually exclusive"},
		{name: "content type not multipart", args: []string{"decode", "--content-type", "text/plain"}, wantErr: "not supported"},
		{name: "unknown flag", args: []string{"decode", "--bogus"}, wantErr: "unknown flag"},
		{name: "bad checksum", args: []string{"decode", "--boundary", "B", "--checksum", "crc64"}, stdin: "", wantErr: "crc64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			if err == nil {
				t.Fatalf("run(%q) error = nil, want %q", tt.args, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("run(%q) error = %v, want it to contain %q", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestDecodeWithoutBoundaryInBody(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"decode", "--boundary", "B"}, strings.NewReader("no delimiter here"), &stdout, &stderr)
	if !errors.Is(err, formkit.ErrBoundaryNotFound) {
		t.Errorf("error = %v, want ErrBoundaryNotFound", err)
	}
}

func TestHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"help"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("help error = %v", err)
	}
	if !strings.Contains(stdout.String(), "formkit encode") {
		t.Errorf("usage = %q", stdout.String())
	}

	stdout.Reset()
	if err := run([]string{"decode", "--help"}, nil, &stdout, &stderr); err != nil {
		t.Errorf("decode --help error = %v", err)
	}
	if !strings.Contains(stderr.String(), "--output-dir") {
		t.Errorf("decode flag usage = %q", stderr.String())
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	if _, err := loadManifest(strings.NewReader("")); err == nil {
		t.Error("loadManifest(empty) error = nil")
	}
}

func TestManifestPartFileNameOverride(t *testing.T) {
	name := "renamed.bin"
	mp := manifestPart{Name: "f", Value: new(string), FileName: &name, ContentType: "application/octet-stream"}
	p, err := mp.part(t.TempDir())
	if err != nil {
		t.Fatalf("part() error = %v", err)
	}
	if p.FileName() != name || p.ContentType() != "application/octet-stream" || p.Size() != 0 {
		t.Errorf("part = %q %q size %d", p.FileName(), p.ContentType(), p.Size())
	}
}

func TestWritePartStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	part := formkit.NewPart("f").WithFileName("../../etc/passwd").WithContentString("x")

	path, err := writePart(dir, 3, part)
	if err != nil {
		t.Fatalf("writePart() error = %v", err)
	}
	if want := filepath.Join(dir, "03-passwd"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	path, err = writePart(dir, 4, formkit.NewPart("notes").WithContentType("application/json"))
	if err != nil {
		t.Fatalf("writePart() error = %v", err)
	}
	if want := filepath.Join(dir, "04-notes.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}
