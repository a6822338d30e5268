package model

import "testing"

func names(pkgs []*Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

func TestCollect(t *testing.T) {
	tests := []struct {
		name  string
		roots []*Package
		want  []string
	}{
		{
			name:  "Empty",
			roots: nil,
			want:  []string{},
		},
		{
			name: "SingleRoot",
			roots: []*Package{
				{ID: 1, Name: "Model"},
			},
			want: []string{"Model"},
		},
		{
			name: "NestedDepthFirst",
			roots: []*Package{
				{ID: 1, Name: "Model", Packages: []*Package{
					{ID: 2, ParentID: 1, Name: "Domain", Packages: []*Package{
						{ID: 4, ParentID: 2, Name: "Billing"},
					}},
					{ID: 3, ParentID: 1, Name: "Infra"},
				}},
			},
			want: []string{"Model", "Domain", "Billing", "Infra"},
		},
		{
			name: "MultipleRoots",
			roots: []*Package{
				{ID: 1, Name: "ModelA", Packages: []*Package{
					{ID: 2, ParentID: 1, Name: "Sub"},
				}},
				{ID: 5, Name: "ModelB"},
			},
			want: []string{"ModelA", "Sub", "ModelB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Collect(tt.roots))
			if len(got) != len(tt.want) {
				t.Fatalf("Collect = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Collect[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCollectVisitsEachPackageOnce(t *testing.T) {
	roots := []*Package{
		{ID: 1, Name: "Model", Packages: []*Package{
			{ID: 2, ParentID: 1, Name: "A"},
			{ID: 3, ParentID: 1, Name: "B", Packages: []*Package{
				{ID: 4, ParentID: 3, Name: "C"},
			}},
		}},
	}

	seen := make(map[int]int)
	for _, p := range Collect(roots) {
		seen[p.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("package %d visited %d times", id, n)
		}
	}
	if len(seen) != 4 {
		t.Errorf("visited %d packages, want 4", len(seen))
	}
}

func TestSelectable(t *testing.T) {
	pkgs := []*Package{
		{ID: 1, ParentID: 0, Name: "Model"},
		{ID: 2, ParentID: 1, Name: "Zeta"},
		{ID: 3, ParentID: 1, Name: "Alpha"},
		{ID: 4, ParentID: 3, Name: "Mid"},
	}

	got := names(Selectable(pkgs))
	want := []string{"Alpha", "Mid", "Zeta"}
	if len(got) != len(want) {
		t.Fatalf("Selectable = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Selectable[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSelectableStableForEqualNames(t *testing.T) {
	pkgs := []*Package{
		{ID: 1, ParentID: 0, Name: "Root"},
		{ID: 10, ParentID: 1, Name: "Dup"},
		{ID: 11, ParentID: 1, Name: "Dup"},
	}

	got := Selectable(pkgs)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != 10 || got[1].ID != 11 {
		t.Errorf("order not stable: got IDs %d, %d", got[0].ID, got[1].ID)
	}
}
