package binding

import "testing"

func TestTable_Symmetry(t *testing.T) {
	pairs := []Binding{
		{Guilded: "g1", Discord: "d1"},
		{Guilded: "g2", Discord: "d2"},
	}
	table, err := NewTable(pairs)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("len: got %d, want 2", table.Len())
	}

	for _, p := range pairs {
		if got, ok := table.DiscordFor(p.Guilded); !ok || got != p.Discord {
			t.Errorf("DiscordFor(%s): got (%q, %v), want (%q, true)", p.Guilded, got, ok, p.Discord)
		}
		if got, ok := table.GuildedFor(p.Discord); !ok || got != p.Guilded {
			t.Errorf("GuildedFor(%s): got (%q, %v), want (%q, true)", p.Discord, got, ok, p.Guilded)
		}
	}
}

func TestTable_UnknownChannelHasNoLink(t *testing.T) {
	table, err := NewTable([]Binding{{Guilded: "g1", Discord: "d1"}})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	if _, ok := table.DiscordFor("nope"); ok {
		t.Error("unexpected link for unknown guilded channel")
	}
	if _, ok := table.GuildedFor("nope"); ok {
		t.Error("unexpected link for unknown discord channel")
	}
}

func TestTable_RejectsDuplicates(t *testing.T) {
	_, err := NewTable([]Binding{
		{Guilded: "g1", Discord: "d1"},
		{Guilded: "g1", Discord: "d2"},
	})
	if err == nil {
		t.Error("expected error for duplicate guilded channel")
	}

	_, err = NewTable([]Binding{
		{Guilded: "g1", Discord: "d1"},
		{Guilded: "g2", Discord: "d1"},
	})
	if err == nil {
		t.Error("expected error for duplicate discord channel")
	}

	_, err = NewTable([]Binding{{Guilded: "", Discord: "d1"}})
	if err == nil {
		t.Error("expected error for empty channel id")
	}
}
