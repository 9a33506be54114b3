package cpu

// The arithmetic of the CPU is modulo 256. Results never overflow into an
// error; they wrap.

// WrapAdd returns a + b modulo 256.
func WrapAdd(a, b uint8) uint8 {
	return a + b
}

// WrapSub returns a - b modulo 256.
func WrapSub(a, b uint8) uint8 {
	return a - b
}

// WrapInc returns a + 1 modulo 256; 0xFF increments to 0x00.
func WrapInc(a uint8) uint8 {
	return WrapAdd(a, 1)
}

// WrapDec returns a - 1 modulo 256; 0x00 decrements to 0xFF.
func WrapDec(a uint8) uint8 {
	return WrapSub(a, 1)
}

// doAlu performs the requested arithmetic operation, and returns the output value.
func doAlu(op Op, a uint8, b uint8) (output uint8) {
	switch op {
	case OP_ADD:
		output = WrapAdd(a, b)
	case OP_SUB:
		output = WrapSub(a, b)
	case OP_INC:
		output = WrapInc(a)
	case OP_DEC:
		output = WrapDec(a)
	default:
		panic("not an arithmetic op")
	}

	return
}
