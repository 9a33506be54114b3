package cpu

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Operand is the kind of an operand token in a source line.
type Operand int

//go:generate go tool stringer -linecomment -type=Operand
const (
	OPERAND_REG   = Operand(0) // reg
	OPERAND_BYTE  = Operand(1) // byte
	OPERAND_LABEL = Operand(2) // label
)

// operandPattern is the upper case regular expression for each operand kind.
var operandPattern = map[Operand]string{
	OPERAND_REG:   `([A-P])`,
	OPERAND_BYTE:  `([0-9A-F]{2})`,
	OPERAND_LABEL: `([A-Z]+)`,
}

// Rule is a single rule of the instruction set grammar.
type Rule struct {
	Op       Op        // Operation, whose name is the mnemonic.
	Operands []Operand // Operand kinds, in source order.

	// Encode builds the instruction from the parsed operands. Registers
	// are passed as indexes, bytes as values, and labels as zero.
	Encode func(args []uint8) Code
}

// Rules is the bytevm instruction set.
var Rules = []Rule{
	{OP_LOADM, []Operand{OPERAND_REG, OPERAND_BYTE}, func(a []uint8) Code {
		return MakeCodeRegByte(OP_LOADM, a[0], a[1])
	}},
	{OP_STORE, []Operand{OPERAND_REG, OPERAND_BYTE}, func(a []uint8) Code {
		return MakeCodeRegByte(OP_STORE, a[0], a[1])
	}},
	{OP_JUMPZ, []Operand{OPERAND_LABEL}, func(a []uint8) Code {
		return MakeCodeJump(a[0])
	}},
	{OP_ADD, []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}, func(a []uint8) Code {
		return MakeCodeArith(OP_ADD, a[0], a[1], a[2])
	}},
	{OP_SUB, []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}, func(a []uint8) Code {
		return MakeCodeArith(OP_SUB, a[0], a[1], a[2])
	}},
	{OP_DEC, []Operand{OPERAND_REG}, func(a []uint8) Code {
		return MakeCodeReg(OP_DEC, a[0])
	}},
	{OP_INC, []Operand{OPERAND_REG}, func(a []uint8) Code {
		return MakeCodeReg(OP_INC, a[0])
	}},
	{OP_LOADC, []Operand{OPERAND_REG, OPERAND_BYTE}, func(a []uint8) Code {
		return MakeCodeRegByte(OP_LOADC, a[0], a[1])
	}},
	{OP_COPY, []Operand{OPERAND_REG, OPERAND_REG}, func(a []uint8) Code {
		return MakeCodeCopy(a[0], a[1])
	}},
	{OP_STOP, nil, func(a []uint8) Code {
		return MakeCodeStop()
	}},
}

// Pattern returns the anchored regular expression matching the rule.
func (rule *Rule) Pattern() string {
	parts := []string{regexp.QuoteMeta(rule.Op.String())}
	for _, kind := range rule.Operands {
		parts = append(parts, operandPattern[kind])
	}

	return "^" + strings.Join(parts, " +") + "$"
}

// labelPattern matches a label declaration.
var labelPattern = regexp.MustCompile(`^([A-Z]+):$`)

// Statement is a source line matched against the grammar.
type Statement struct {
	Rule  *Rule   // Matched rule, or nil for a label declaration.
	Label string  // Declared or referenced label.
	Args  []uint8 // Parsed operands.
}

// Grammar is a rule table compiled into matchers.
type Grammar struct {
	rules   []Rule
	matcher []*regexp.Regexp
}

// NewGrammar compiles a rule table.
func NewGrammar(rules []Rule) (grammar *Grammar) {
	grammar = &Grammar{
		rules: rules,
	}

	for n := range rules {
		grammar.matcher = append(grammar.matcher, regexp.MustCompile(rules[n].Pattern()))
	}

	return
}

// defaultGrammar is the compiled Rules table, shared by all assemblers.
var defaultGrammar = sync.OnceValue(func() *Grammar {
	return NewGrammar(Rules)
})

// Operands returns the operand kinds of the single rule with a mnemonic
// and operand count.
func (grammar *Grammar) Operands(mnemonic string, count int) (kinds []Operand, ok bool) {
	matched := 0
	for n := range grammar.rules {
		rule := &grammar.rules[n]
		if rule.Op.String() == mnemonic && len(rule.Operands) == count {
			kinds = rule.Operands
			matched++
		}
	}

	if matched != 1 {
		kinds = nil
		return
	}

	ok = true
	return
}

// Match matches an upper case, trimmed source line. A line must match
// exactly one rule, or be a label declaration.
func (grammar *Grammar) Match(line string) (stmt Statement, ok bool) {
	if groups := labelPattern.FindStringSubmatch(line); groups != nil {
		stmt.Label = groups[1]
		ok = true
		return
	}

	matched := 0
	for n, re := range grammar.matcher {
		groups := re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		matched++

		rule := &grammar.rules[n]
		stmt = Statement{Rule: rule}
		for i, kind := range rule.Operands {
			word := groups[1+i]
			switch kind {
			case OPERAND_REG:
				stmt.Args = append(stmt.Args, word[0]-'A')
			case OPERAND_BYTE:
				value, _ := strconv.ParseUint(word, 16, 8)
				stmt.Args = append(stmt.Args, uint8(value))
			case OPERAND_LABEL:
				stmt.Label = word
				stmt.Args = append(stmt.Args, 0)
			}
		}
	}

	if matched != 1 {
		stmt = Statement{}
		return
	}

	ok = true
	return
}
