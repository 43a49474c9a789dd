package panicuse

func mustPositive(n int) int {
	if n < 0 {
		panic("negative") // want `panic\(\) should not be used`
	}
	return n
}

func shadowed() {
	panic := func(string) {}
	panic("not the builtin")
}
