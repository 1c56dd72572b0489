package ltn2ch

import (
	"testing"
)

func TestProjectExcludedRoads(t *testing.T) {
	edits := NewEdits()
	edits.PlaceRoadFilter(1, 0.0, FILTER_NO_ENTRY)
	edits.PlaceRoadFilter(8, 42.0, FILTER_SCHOOL_STREET)

	constraints := Project(edits)
	if len(constraints.ExcludedRoads) != 2 {
		t.Fatalf("Exactly the filtered roads must be excluded, but got %v", constraints.ExcludedRoads)
	}
	for _, r := range []RoadID{1, 8} {
		if _, ok := constraints.ExcludedRoads[r]; !ok {
			t.Errorf("Road %d must be excluded", r)
		}
	}
}

func TestProjectForbiddenMovementsSymmetric(t *testing.T) {
	net := fourWay(t)
	edits := NewEdits()
	CycleThroughAlternatives(net, edits, 0, FILTER_WALK_CYCLE_ONLY)

	constraints := Project(edits)
	// Two roads on each side of the diagonal: 2*2 pairs in both directions
	if len(constraints.ForbiddenMovements) != 8 {
		t.Fatalf("Diagonal filter must forbid 8 ordered pairs, but got %d", len(constraints.ForbiddenMovements))
	}
	for movement := range constraints.ForbiddenMovements {
		mirrored := Movement{From: movement.To, To: movement.From}
		if _, ok := constraints.ForbiddenMovements[mirrored]; !ok {
			t.Errorf("Movement %v present without its mirror", movement)
		}
	}
	if _, ok := constraints.ForbiddenMovements[Movement{From: 1, To: 3}]; !ok {
		t.Errorf("Cross-group movement (1, 3) must be forbidden")
	}
	if _, ok := constraints.ForbiddenMovements[Movement{From: 1, To: 2}]; ok {
		t.Errorf("Within-group movement (1, 2) must stay legal")
	}
}

func TestProjectIsPure(t *testing.T) {
	edits := NewEdits()
	edits.PlaceRoadFilter(1, 0.0, FILTER_NO_ENTRY)
	key := edits.GetChangeKey()
	Project(edits)
	if !key.Equal(edits.GetChangeKey()) {
		t.Errorf("Projection must not mutate the edits")
	}
}

func expandedContains(edges []ExpandedEdge, from, to RoadID) bool {
	for _, edge := range edges {
		if edge.SourceRoad == from && edge.TargetRoad == to {
			return true
		}
	}
	return false
}

func TestExpandLegalMovementsUnfiltered(t *testing.T) {
	net := threeWay(t)
	edges := ExpandLegalMovements(net, Project(NewEdits()))

	// Every pair of distinct arms must be connected through the center
	arms := []RoadID{1, 2, 3}
	for _, from := range arms {
		for _, to := range arms {
			if from == to {
				if expandedContains(edges, from, to) {
					t.Errorf("U-turn (%d, %d) must not produce an edge", from, to)
				}
				continue
			}
			if !expandedContains(edges, from, to) {
				t.Errorf("Movement (%d, %d) must produce an edge", from, to)
			}
		}
	}
	// Arms chain into their continuations as well
	if !expandedContains(edges, 1, 100) || !expandedContains(edges, 100, 1) {
		t.Errorf("Arm and its continuation must be connected in both directions")
	}
}

func TestExpandLegalMovementsRespectsDiagonalFilter(t *testing.T) {
	net := fourWay(t)
	edits := NewEdits()
	CycleThroughAlternatives(net, edits, 0, FILTER_WALK_CYCLE_ONLY)

	edges := ExpandLegalMovements(net, Project(edits))
	if expandedContains(edges, 1, 3) || expandedContains(edges, 3, 1) {
		t.Errorf("Cross-group movement between roads 1 and 3 must not produce an edge")
	}
	if expandedContains(edges, 2, 4) || expandedContains(edges, 4, 2) {
		t.Errorf("Cross-group movement between roads 2 and 4 must not produce an edge")
	}
	if !expandedContains(edges, 1, 2) || !expandedContains(edges, 3, 4) {
		t.Errorf("Within-group movements must stay in the expanded graph")
	}
}

func TestExpandLegalMovementsDropsFilteredRoads(t *testing.T) {
	net := threeWay(t)
	edits := NewEdits()
	edits.PlaceRoadFilter(2, 0.0, FILTER_NO_ENTRY)

	edges := ExpandLegalMovements(net, Project(edits))
	for _, edge := range edges {
		if edge.SourceRoad == 2 || edge.TargetRoad == 2 {
			t.Errorf("Filtered road must be dropped from the expanded graph, but got edge %+v", edge)
		}
	}
	if !expandedContains(edges, 1, 3) {
		t.Errorf("Remaining movements must survive the exclusion")
	}
}

func TestExpandLegalMovementsRespectsOneway(t *testing.T) {
	net := makeStar(t, []float64{0, 90, 270}, map[RoadID]bool{1: true}, nil)
	edges := ExpandLegalMovements(net, Project(NewEdits()))

	backward := directedVertexID(1, false)
	for _, edge := range edges {
		if edge.Source == backward || edge.Target == backward {
			t.Errorf("One way road must not be traversed backwards, but got edge %+v", edge)
		}
	}
}

func TestBuildContractedGraph(t *testing.T) {
	net := fourWay(t)
	edges := ExpandLegalMovements(net, Project(NewEdits()))
	graph, err := BuildContractedGraph(edges, false)
	if err != nil {
		t.Fatalf("Graph must be built: %v", err)
	}
	if len(graph.Vertices) == 0 {
		t.Errorf("Graph must contain vertices")
	}
}
