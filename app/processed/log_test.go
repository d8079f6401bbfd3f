package processed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soublr.log")

	l, existed, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if existed {
		t.Error("Expected existed to be false")
	}
	if l.Len() != 0 {
		t.Errorf("Expected empty log, got %d entries", l.Len())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soublr.log")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, existed, err := Load(path)
	if err == nil {
		t.Error("Expected error for malformed log")
	}
	if !existed {
		t.Error("Expected existed to be true")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soublr.log")

	mappings := []map[string]string{
		{},
		{"http://example.soup.io/post/1": "example.tumblr.com/post/101"},
		{
			"http://example.soup.io/post/2?a=1&b=2": "example.tumblr.com/post/102",
			"guid-<weird>":                          "example.tumblr.com/post/103",
			"ünïcödé":                               "example.tumblr.com/post/104",
		},
	}

	for i, m := range mappings {
		l, _, err := Load(path)
		if err != nil {
			t.Fatalf("Case %d: load failed: %v", i, err)
		}
		l.entries = m

		if err := l.Save(); err != nil {
			t.Fatalf("Case %d: save failed: %v", i, err)
		}

		reloaded, existed, err := Load(path)
		if err != nil {
			t.Fatalf("Case %d: reload failed: %v", i, err)
		}
		if !existed {
			t.Errorf("Case %d: expected log to exist after save", i)
		}

		got := reloaded.Entries()
		if len(got) != len(m) {
			t.Errorf("Case %d: expected %d entries, got %d", i, len(m), len(got))
		}
		for k, v := range m {
			if got[k] != v {
				t.Errorf("Case %d: key '%s': expected '%s', got '%s'", i, k, v, got[k])
			}
		}
	}
}

func TestSaveSortedAndIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soublr.log")

	l, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Record("b", "blog/post/2")
	l.Record("a", "blog/post/1")
	l.Record("c&d", "blog/post/3")

	if err := l.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	expected := "{\n  \"a\": \"blog/post/1\",\n  \"b\": \"blog/post/2\",\n  \"c&d\": \"blog/post/3\"\n}\n"
	if string(data) != expected {
		t.Errorf("Unexpected log contents:\n%s", data)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soublr.log")

	l, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Record("a", "blog/post/1")

	if err := l.Save(); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)

	if err := l.Save(); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Error("Expected repeated saves to produce identical files")
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("Expected no leftover temp files, got %v", matches)
	}
}

func TestSaveBacksUpPreviousLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soublr.log")
	previous := "{\n  \"a\": \"blog/post/1\"\n}\n"
	if err := os.WriteFile(path, []byte(previous), 0644); err != nil {
		t.Fatal(err)
	}

	l, existed, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !existed {
		t.Fatal("Expected existing log")
	}
	l.Record("b", "blog/post/2")

	if err := l.Save(); err != nil {
		t.Fatal(err)
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("Expected backup file, got: %v", err)
	}
	if string(backup) != previous {
		t.Errorf("Expected backup to hold previous contents, got:\n%s", backup)
	}

	current, _ := os.ReadFile(path)
	if !strings.Contains(string(current), "blog/post/2") {
		t.Error("Expected new entry in current log")
	}
}

func TestCloseSavesOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soublr.log")

	l, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Record("a", "blog/post/1")

	if err := l.Close(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// A second close must not write again
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Expected no error on second close, got: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected second close to be a no-op")
	}
}

func TestCloseReportsUnwritableLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "soublr.log")

	l, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Record("a", "blog/post/1")

	if err := l.Close(); err == nil {
		t.Error("Expected error for unwritable log")
	}
	if l.Len() != 1 {
		t.Error("Expected in-memory entries to survive a failed save")
	}
}
