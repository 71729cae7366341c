// internal/repo/diff_test.go
package repo

import (
	"testing"

	"github.com/quartzind/lit/internal/model"
)

func TestParseNumstat(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantFiles    int
		wantAdded    int
		wantDeleted  int
		wantBinaries int
	}{
		{
			name:      "empty output",
			input:     "",
			wantFiles: 0,
		},
		{
			name:        "single file",
			input:       "10\t5\tsrc/main.go\n",
			wantFiles:   1,
			wantAdded:   10,
			wantDeleted: 5,
		},
		{
			name:        "multiple files",
			input:       "10\t5\tsrc/main.go\n3\t1\tREADME.md\n",
			wantFiles:   2,
			wantAdded:   13,
			wantDeleted: 6,
		},
		{
			name:         "binary file",
			input:        "-\t-\timage.png\n",
			wantFiles:    1,
			wantBinaries: 1,
		},
		{
			name:         "mixed binary and text",
			input:        "22\t5\tsrc/app.go\n-\t-\tlogo.png\n8\t0\tgo.mod\n",
			wantFiles:    3,
			wantAdded:    30,
			wantDeleted:  5,
			wantBinaries: 1,
		},
		{
			name:      "whitespace only",
			input:     "  \n  \n",
			wantFiles: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, added, deleted := parseNumstat(tt.input)
			if len(files) != tt.wantFiles {
				t.Errorf("files = %d, want %d", len(files), tt.wantFiles)
			}
			if added != tt.wantAdded {
				t.Errorf("added = %d, want %d", added, tt.wantAdded)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %d, want %d", deleted, tt.wantDeleted)
			}
			binaries := 0
			for _, f := range files {
				if f.Binary {
					binaries++
				}
			}
			if binaries != tt.wantBinaries {
				t.Errorf("binaries = %d, want %d", binaries, tt.wantBinaries)
			}
		})
	}
}

const sampleDiff = `diff --git a/main.go b/main.go
index 1234567..89abcde 100644
--- a/main.go
+++ b/main.go
@@ -1,4 +1,5 @@
 package main
 
-func main() {}
+func main() {
+}
@@ -10,2 +11,2 @@ func helper() {
-	old := 1
+	old := 2
 	_ = old
`

func TestParseUnifiedDiff(t *testing.T) {
	fd := parseUnifiedDiff(sampleDiff)

	if len(fd.Hunks) != 2 {
		t.Fatalf("hunks = %d, want 2", len(fd.Hunks))
	}
	if fd.Added != 3 {
		t.Errorf("Added = %d, want 3", fd.Added)
	}
	if fd.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", fd.Deleted)
	}
	if fd.Binary {
		t.Error("Binary should be false")
	}

	first := fd.Hunks[0]
	if first.Header != "@@ -1,4 +1,5 @@" {
		t.Errorf("hunk header = %q", first.Header)
	}
	// header + 2 context + 1 deleted + 2 added
	if len(first.Lines) != 6 {
		t.Fatalf("hunk lines = %d, want 6", len(first.Lines))
	}
	if first.Lines[0].Kind != model.DiffHeader {
		t.Errorf("first line kind = %v, want header", first.Lines[0].Kind)
	}
	if first.Lines[1].Kind != model.DiffContext || first.Lines[1].OldNo != 1 || first.Lines[1].NewNo != 1 {
		t.Errorf("context line = %+v", first.Lines[1])
	}
	if first.Lines[3].Kind != model.DiffDeleted || first.Lines[3].OldNo != 3 {
		t.Errorf("deleted line = %+v", first.Lines[3])
	}
	if first.Lines[4].Kind != model.DiffAdded || first.Lines[4].NewNo != 3 {
		t.Errorf("added line = %+v", first.Lines[4])
	}
}

func TestParseUnifiedDiff_Binary(t *testing.T) {
	fd := parseUnifiedDiff("diff --git a/x.png b/x.png\nBinary files a/x.png and b/x.png differ\n")
	if !fd.Binary {
		t.Error("Binary should be true")
	}
	if len(fd.Hunks) != 0 {
		t.Errorf("hunks = %d, want 0", len(fd.Hunks))
	}
}

func TestParseHunkHeader(t *testing.T) {
	tests := []struct {
		header  string
		wantOld int
		wantNew int
	}{
		{"@@ -1,4 +1,5 @@", 1, 1},
		{"@@ -10,2 +11,2 @@ func helper() {", 10, 11},
		{"@@ -0,0 +1 @@", 0, 1},
		{"@@ -7 +7,0 @@", 7, 7},
		{"garbage", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			oldStart, newStart := parseHunkHeader(tt.header)
			if oldStart != tt.wantOld || newStart != tt.wantNew {
				t.Errorf("parseHunkHeader(%q) = (%d, %d), want (%d, %d)",
					tt.header, oldStart, newStart, tt.wantOld, tt.wantNew)
			}
		})
	}
}
