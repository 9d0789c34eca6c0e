package mapping

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildJar(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadTinyFromJar(t *testing.T) {
	jar := buildJar(t, map[string]string{
		"mappings/mappings.tiny": "tiny\t2\t0\tofficial\tintermediary\n",
		"META-INF/MANIFEST.MF":   "Manifest-Version: 1.0\n",
	})
	got, err := readTinyFromJar(jar)
	if err != nil {
		t.Fatal(err)
	}
	want := "tiny\t2\t0\tofficial\tintermediary\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReadTinyFromJarMissingEntry(t *testing.T) {
	jar := buildJar(t, map[string]string{"README.txt": "nothing here"})
	_, err := readTinyFromJar(jar)
	if err == nil {
		t.Fatal("expected an error for a jar missing mappings/mappings.tiny")
	}
}
