package a

func f() {
	x := 1 // want "trailing whitespace"   
        _ = x // want "indentation should use tabs"
	_ = x  	// want "space before tab"
	if x > 0 {
		x++
	}
}
