package transport

import "testing"

func TestFileNameFromRelative(t *testing.T) {
	cases := map[string]string{
		"report.docx":            "report.docx",
		"folder/report.docx":     "report.docx",
		"a/b/c/deep.docx":        "deep.docx",
	}
	for in, want := range cases {
		if got := fileNameFromRelative(in); got != want {
			t.Errorf("fileNameFromRelative(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFolderFromRelative(t *testing.T) {
	cases := map[string]string{
		"report.docx":        "",
		"folder/report.docx": "folder",
		"a/b/c/deep.docx":    "a/b/c",
	}
	for in, want := range cases {
		if got := folderFromRelative(in); got != want {
			t.Errorf("folderFromRelative(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnsureFolderWithAncestorsBuildsEveryLevel(t *testing.T) {
	folders := make(map[string]*FolderEntry)
	ensureFolderWithAncestors(folders, "a/b/c")

	for _, path := range []string{"", "a", "a/b", "a/b/c"} {
		if _, ok := folders[path]; !ok {
			t.Fatalf("expected folder entry for %q to exist", path)
		}
	}

	root := folders[""]
	if root.Name != "Root" || root.ParentPath != "" || root.Depth != 0 {
		t.Fatalf("unexpected root entry: %+v", root)
	}

	a := folders["a"]
	if a.Name != "a" || a.ParentPath != "" || a.Depth != 1 {
		t.Fatalf("unexpected entry for 'a': %+v", a)
	}

	ab := folders["a/b"]
	if ab.Name != "b" || ab.ParentPath != "a" || ab.Depth != 2 {
		t.Fatalf("unexpected entry for 'a/b': %+v", ab)
	}

	abc := folders["a/b/c"]
	if abc.Name != "c" || abc.ParentPath != "a/b" || abc.Depth != 3 {
		t.Fatalf("unexpected entry for 'a/b/c': %+v", abc)
	}
}

func TestEnsureFolderWithAncestorsIsIdempotent(t *testing.T) {
	folders := make(map[string]*FolderEntry)
	ensureFolderWithAncestors(folders, "x/y")
	first := folders["x/y"]
	ensureFolderWithAncestors(folders, "x/y")
	if folders["x/y"] != first {
		t.Fatal("re-inserting an existing folder path should not replace its entry")
	}
	if len(folders) != 3 {
		t.Fatalf("expected 3 distinct folders (root, x, x/y), got %d", len(folders))
	}
}
