package stream

import "testing"

func TestFilterDropsValuesThatFailThePredicate(t *testing.T) {
	src := NewHotInput[int]("source")
	even := Filter(src.Node(), func(v int) bool { return v%2 == 0 })

	var got []int
	On(even, func(v int) { got = append(got, v) })

	for i := 1; i <= 5; i++ {
		src.Push(i)
	}

	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("got = %v, want [2 4]", got)
	}
}

func TestStridePassesEveryNthValueCountedFromFirst(t *testing.T) {
	src := NewHotInput[int]("source")
	strided := Stride(src.Node(), 2)

	var got []int
	On(strided, func(v int) { got = append(got, v) })

	for i := 1; i <= 4; i++ {
		src.Push(i)
	}

	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("got = %v, want [2 4]", got)
	}
}

func TestSkipDropsTheFirstNValues(t *testing.T) {
	src := NewHotInput[int]("source")
	skipped := Skip(src.Node(), 2)

	var got []int
	On(skipped, func(v int) { got = append(got, v) })

	for i := 1; i <= 4; i++ {
		src.Push(i)
	}

	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("got = %v, want [3 4]", got)
	}
}

func TestDistinctDropsValuesEqualToThePreviouslyEmittedOne(t *testing.T) {
	src := NewHotInput[int]("source")
	distinct := Distinct(src.Node(), func(a, b int) bool { return a == b })

	var got []int
	On(distinct, func(v int) { got = append(got, v) })

	src.Push(1)
	src.Push(1)
	src.Push(2)
	src.Push(2)
	src.Push(1)

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("got = %v, want [1 2 1]", got)
	}
}
