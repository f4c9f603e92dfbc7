package lucendra

import (
	"strings"
	"testing"
)

func TestNewTokenPartitioner_Validation(t *testing.T) {
	tests := []struct {
		name       string
		partitions int
		wantErr    bool
	}{
		{"positive", 4, false},
		{"zero", 0, true},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewTokenPartitioner(tt.partitions)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected construction error")
				}
				if p != nil {
					t.Errorf("expected no usable instance, got %+v", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.partitions != tt.partitions {
				t.Errorf("partitions = %d, want %d", p.partitions, tt.partitions)
			}
		})
	}
}

func TestNewColumnPartitioner_Validation(t *testing.T) {
	if _, err := NewColumnPartitioner(-1, "x"); err == nil {
		t.Error("expected error for negative partitions")
	}
	if _, err := NewColumnPartitioner(0, "x"); err == nil {
		t.Error("expected error for zero partitions")
	}
	if _, err := NewColumnPartitioner(1, ""); err == nil {
		t.Error("expected error for empty column")
	}
	p, err := NewColumnPartitioner(4, "user_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.partitions != 4 || p.column != "user_id" {
		t.Errorf("partitioner = %+v", p)
	}
}

func TestNewVNodePartitioner_Validation(t *testing.T) {
	_, err := NewVNodePartitioner(0)
	if err == nil {
		t.Fatal("expected error for zero vnodes")
	}
	if !strings.Contains(err.Error(), "vnodes_per_partition") {
		t.Errorf("error = %q", err)
	}
	p, err := NewVNodePartitioner(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.vnodesPerPartition != 8 {
		t.Errorf("vnodesPerPartition = %d, want 8", p.vnodesPerPartition)
	}
}

func TestPaths_LastWriteWins(t *testing.T) {
	p, err := NewTokenPartitioner(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := p.Paths([]string{"/data/old"}).Paths([]string{"/data/p0", "/data/p1"})
	if got != p {
		t.Error("Paths must return the receiver")
	}
	if len(p.paths) != 2 || p.paths[0] != "/data/p0" || p.paths[1] != "/data/p1" {
		t.Errorf("paths = %v, want [/data/p0 /data/p1] only", p.paths)
	}
}

func TestColumnPaths_LastWriteWins(t *testing.T) {
	p, err := NewColumnPartitioner(4, "user_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Paths([]string{"/a"}).Paths([]string{"/b"})
	if len(p.paths) != 1 || p.paths[0] != "/b" {
		t.Errorf("paths = %v, want [/b] only", p.paths)
	}
}
