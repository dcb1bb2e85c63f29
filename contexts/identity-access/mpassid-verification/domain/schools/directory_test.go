package schools

import "testing"

func TestStaticDirectoryLookup(t *testing.T) {
	dir := NewStaticDirectory([]School{
		{Code: "00001", Name: "Keskustan ala-aste", Type: TypeElementary},
		{Code: "00002", Name: "Rannan lukio", Type: 15},
	})

	school, ok := dir.Lookup("00001")
	if !ok || school.Name != "Keskustan ala-aste" {
		t.Fatalf("unexpected lookup result %v %v", school, ok)
	}
	if _, ok := dir.Lookup("99999"); ok {
		t.Fatalf("expected miss for unknown code")
	}
	if dir.Len() != 2 {
		t.Fatalf("unexpected directory size %d", dir.Len())
	}
}

func TestHasElementaryLevels(t *testing.T) {
	for _, schoolType := range []int{TypeElementary, TypeElementaryAndHigh, TypeElementarySpecial} {
		if !(School{Type: schoolType}).HasElementaryLevels() {
			t.Fatalf("expected type %d to carry elementary levels", schoolType)
		}
	}
	if (School{Type: 15}).HasElementaryLevels() {
		t.Fatalf("expected type 15 to carry no elementary levels")
	}
}
