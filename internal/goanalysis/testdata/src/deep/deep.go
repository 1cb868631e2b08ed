package deep

func h() {
			_ = 1 // want "indentation deepens by more than one tab"
}
