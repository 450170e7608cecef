package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/lc3b/internal"
	"github.com/ezrec/lc3b/isa"
	"github.com/ezrec/lc3b/machine"
)

// Predefined system equates: the machine constants plus the assembler's
// own.
var sysEquate = map[string]string{}

func init() {
	asmDefine := map[string]string{
		"LINENO": "0",
	}
	for key, value := range internal.IterSeq2Concat(machine.Defines(), maps.All(asmDefine)) {
		sysEquate[key] = value
	}
}

// Assembler is a single pass assembler for the LC-3b instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]uint16 // Map of labels to code addresses.
	Equate    map[string]string // Map of equates.

	origin    uint16
	originSet bool
	ended     bool
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// registerMap maps register names, case folded to upper.
var registerMap = map[string]isa.Register{
	"R0": isa.R0,
	"R1": isa.R1,
	"R2": isa.R2,
	"R3": isa.R3,
	"R4": isa.R4,
	"R5": isa.R5,
	"R6": isa.R6,
	"R7": isa.R7,
}

// register returns the register a word names.
func (asm *Assembler) register(word string) (reg isa.Register, err error) {
	reg, ok := registerMap[strings.ToUpper(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// valueOf returns the value of a simple word: #decimal, xHEX, or any base
// strconv accepts.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	text := word
	base := 0
	switch {
	case text[0] == '#':
		text = text[1:]
		base = 10
	case (text[0] == 'x' || text[0] == 'X') && len(text) > 1:
		text = text[1:]
		base = 16
	}

	v64, err := strconv.ParseInt(text, base, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}
	value = int(v64)

	return
}

// parenEval does assembly-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value32, err := asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(value32)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// stripComment removes a ';' comment, honoring double quotes.
func stripComment(line string) string {
	quoted := false
	for n, ch := range line {
		switch {
		case ch == '"':
			quoted = !quoted
		case ch == ';' && !quoted:
			return line[:n]
		}
	}
	return line
}

// splitWords splits on commas and spaces, keeping double-quoted text as a
// single word.
func splitWords(line string) (words []string) {
	quoted := false
	start := -1
	for n, ch := range line {
		separator := !quoted && (ch == ' ' || ch == '\t' || ch == ',')
		switch {
		case separator && start >= 0:
			words = append(words, line[start:n])
			start = -1
		case !separator && start < 0:
			start = n
		}
		if ch == '"' {
			quoted = !quoted
		}
	}
	if start >= 0 {
		words = append(words, line[start:])
	}
	return
}

// parseLine parses a single line into substituted words, recording labels
// and equates along the way.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .EQU CONST VALUE
	if strings.EqualFold(words[0], ".EQU") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		if len(word) == 0 || word[0] == '"' {
			continue
		}

		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint16, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentAddr gets the address of the next code word.
func (asm *Assembler) currentAddr() uint16 {
	if len(asm.Opcode) == 0 {
		return asm.origin
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + uint16(len(last.Code))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.origin = machine.USER_PROGRAM_START
	asm.originSet = false
	asm.ended = false
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() && !asm.ended {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		err = asm.link(op)
		if err != nil {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			return
		}
	}

	prog = &Program{
		Origin:  asm.origin,
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link patches one opcode's label reference now that every label has an
// address.
func (asm *Assembler) link(op *Opcode) (err error) {
	target, ok := asm.Label[op.LinkLabel]
	if !ok {
		err = ErrLabelMissing(op.LinkLabel)
		return
	}

	last := len(op.Code) - 1

	if op.LinkAbsolute {
		op.Code[last] = target
		return
	}

	// PC-relative: the delta is measured from the incremented PC.
	delta := int(target) - (int(op.Addr) + 1)

	inst, err := isa.Decode(op.Code[last])
	if err != nil {
		return
	}

	switch linked := inst.(type) {
	case isa.Br:
		linked.Offset, err = isa.NewOffset9(delta)
		if err != nil {
			return
		}
		op.Code[last] = linked.Encode()
	case isa.Jsr:
		if delta&1 != 0 {
			err = ErrOffsetOdd
			return
		}
		linked.Offset, err = isa.NewOffset11(delta / 2)
		if err != nil {
			return
		}
		op.Code[last] = linked.Encode()
	case isa.Lea:
		if delta&1 != 0 {
			err = ErrOffsetOdd
			return
		}
		linked.Offset, err = isa.NewOffset9(delta / 2)
		if err != nil {
			return
		}
		op.Code[last] = linked.Encode()
	default:
		err = ErrInstructionInvalid
	}

	return
}

// trapMap maps the trap service aliases to their vectors.
var trapMap = map[string]isa.TrapVect8{
	"GETC":  machine.TRAP_GETC,
	"OUT":   machine.TRAP_OUT,
	"PUTS":  machine.TRAP_PUTS,
	"IN":    machine.TRAP_IN,
	"PUTSP": machine.TRAP_PUTSP,
	"HALT":  machine.TRAP_HALT,
}

// operandCount checks for the exact operand count.
func operandCount(words []string, count int) (err error) {
	switch {
	case len(words)-1 < count:
		err = ErrOperandMissing
	case len(words)-1 > count:
		err = ErrOperandExtra
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var code []uint16
	var label string
	var absolute bool

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(code) == 0 || err != nil {
			return
		}
		opcode := Opcode{
			LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words,
			Code: code, LinkLabel: label, LinkAbsolute: absolute,
		}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToUpper(words[0])

	// Directives first.
	switch mnemonic {
	case ".ORIG":
		if asm.originSet || len(asm.Opcode) > 0 {
			err = ErrOrigLate
			return
		}
		err = operandCount(words, 1)
		if err != nil {
			return
		}
		var value int
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		asm.origin = uint16(value)
		asm.originSet = true
		return
	case ".END":
		asm.ended = true
		return
	}

	switch mnemonic {
	case ".FILL":
		if err = operandCount(words, 1); err != nil {
			return
		}
		value, value_err := asm.valueOf(words[1])
		if value_err != nil {
			// A label fills with its absolute address.
			label = words[1]
			absolute = true
			code = []uint16{0}
			return
		}
		code = []uint16{uint16(value)}
		return
	case ".BLKW":
		if err = operandCount(words, 1); err != nil {
			return
		}
		var count int
		count, err = asm.valueOf(words[1])
		if err != nil || count < 0 {
			err = ErrBlkwSyntax
			return
		}
		code = make([]uint16, count)
		return
	case ".STRINGZ":
		if err = operandCount(words, 1); err != nil {
			return
		}
		var text string
		text, err = strconv.Unquote(words[1])
		if err != nil {
			err = ErrStringzSyntax
			return
		}
		// One character per word, zero terminated, to match the PUTS
		// string layout.
		for n := range len(text) {
			code = append(code, uint16(text[n]))
		}
		code = append(code, 0)
		return
	}

	var inst isa.Instruction
	inst, label, err = asm.parseInstruction(mnemonic, words)
	if err != nil {
		return
	}
	code = []uint16{inst.Encode()}

	return
}

// pcOperand accepts a raw offset field value or a label to link later.
func (asm *Assembler) pcOperand(word string) (value int, label string, err error) {
	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	err = nil
	label = word
	return
}

// parseInstruction encodes one instruction line. A returned label names a
// PC-relative operand left zero for the link pass.
func (asm *Assembler) parseInstruction(mnemonic string, words []string) (inst isa.Instruction, label string, err error) {
	// BRnzp variants collapse onto BR.
	var brCond isa.Condition
	if strings.HasPrefix(mnemonic, "BR") {
		brCond, err = brCondition(mnemonic[2:])
		if err == nil {
			mnemonic = "BR"
		}
		err = nil
	}

	switch mnemonic {
	case "ADD", "AND", "XOR":
		if err = operandCount(words, 3); err != nil {
			return
		}
		var dr, sr1 isa.Register
		if dr, err = asm.register(words[1]); err != nil {
			return
		}
		if sr1, err = asm.register(words[2]); err != nil {
			return
		}
		sr2, reg_err := asm.register(words[3])
		if reg_err == nil {
			switch mnemonic {
			case "ADD":
				inst = isa.AddReg{DR: dr, SR1: sr1, SR2: sr2}
			case "AND":
				inst = isa.AndReg{DR: dr, SR1: sr1, SR2: sr2}
			case "XOR":
				inst = isa.XorReg{DR: dr, SR1: sr1, SR2: sr2}
			}
			return
		}
		var value int
		if value, err = asm.valueOf(words[3]); err != nil {
			return
		}
		var imm isa.Imm5
		if imm, err = isa.NewImm5(value); err != nil {
			return
		}
		switch mnemonic {
		case "ADD":
			inst = isa.AddImm{DR: dr, SR1: sr1, Imm: imm}
		case "AND":
			inst = isa.AndImm{DR: dr, SR1: sr1, Imm: imm}
		case "XOR":
			inst = isa.XorImm{DR: dr, SR1: sr1, Imm: imm}
		}
	case "NOT":
		if err = operandCount(words, 2); err != nil {
			return
		}
		var dr, sr isa.Register
		if dr, err = asm.register(words[1]); err != nil {
			return
		}
		if sr, err = asm.register(words[2]); err != nil {
			return
		}
		inst = isa.Not(dr, sr)
	case "BR":
		if err = operandCount(words, 1); err != nil {
			return
		}
		var value int
		if value, label, err = asm.pcOperand(words[1]); err != nil {
			return
		}
		var offset isa.Offset9
		if len(label) == 0 {
			if offset, err = isa.NewOffset9(value); err != nil {
				return
			}
		}
		inst = isa.Br{Cond: brCond, Offset: offset}
	case "JMP":
		if err = operandCount(words, 1); err != nil {
			return
		}
		var base isa.Register
		if base, err = asm.register(words[1]); err != nil {
			return
		}
		inst = isa.Jmp{Base: base}
	case "RET":
		if err = operandCount(words, 0); err != nil {
			return
		}
		inst = isa.Ret()
	case "JSR":
		if err = operandCount(words, 1); err != nil {
			return
		}
		var value int
		if value, label, err = asm.pcOperand(words[1]); err != nil {
			return
		}
		var offset isa.Offset11
		if len(label) == 0 {
			if offset, err = isa.NewOffset11(value); err != nil {
				return
			}
		}
		inst = isa.Jsr{Offset: offset}
	case "JSRR":
		if err = operandCount(words, 1); err != nil {
			return
		}
		var base isa.Register
		if base, err = asm.register(words[1]); err != nil {
			return
		}
		inst = isa.Jsrr{Base: base}
	case "LDB", "LDI", "LDR", "STB", "STI", "STR":
		if err = operandCount(words, 3); err != nil {
			return
		}
		var first, base isa.Register
		if first, err = asm.register(words[1]); err != nil {
			return
		}
		if base, err = asm.register(words[2]); err != nil {
			return
		}
		var value int
		if value, err = asm.valueOf(words[3]); err != nil {
			return
		}
		var offset isa.Offset6
		if offset, err = isa.NewOffset6(value); err != nil {
			return
		}
		switch mnemonic {
		case "LDB":
			inst = isa.Ldb{DR: first, Base: base, Offset: offset}
		case "LDI":
			inst = isa.Ldi{DR: first, Base: base, Offset: offset}
		case "LDR":
			inst = isa.Ldr{DR: first, Base: base, Offset: offset}
		case "STB":
			inst = isa.Stb{SR: first, Base: base, Offset: offset}
		case "STI":
			inst = isa.Sti{SR: first, Base: base, Offset: offset}
		case "STR":
			inst = isa.Str{SR: first, Base: base, Offset: offset}
		}
	case "LEA":
		if err = operandCount(words, 2); err != nil {
			return
		}
		var dr isa.Register
		if dr, err = asm.register(words[1]); err != nil {
			return
		}
		var value int
		if value, label, err = asm.pcOperand(words[2]); err != nil {
			return
		}
		var offset isa.Offset9
		if len(label) == 0 {
			if offset, err = isa.NewOffset9(value); err != nil {
				return
			}
		}
		inst = isa.Lea{DR: dr, Offset: offset}
	case "RTI":
		if err = operandCount(words, 0); err != nil {
			return
		}
		inst = isa.Rti{}
	case "LSHF", "RSHFL", "RSHFA":
		if err = operandCount(words, 3); err != nil {
			return
		}
		var dr, sr isa.Register
		if dr, err = asm.register(words[1]); err != nil {
			return
		}
		if sr, err = asm.register(words[2]); err != nil {
			return
		}
		var value int
		if value, err = asm.valueOf(words[3]); err != nil {
			return
		}
		var amount isa.Amount4
		if amount, err = isa.NewAmount4(value); err != nil {
			return
		}
		inst = isa.Shf{
			DR: dr, SR: sr, Amount: amount,
			Right: mnemonic != "LSHF",
			Arith: mnemonic == "RSHFA",
		}
	case "TRAP":
		if err = operandCount(words, 1); err != nil {
			return
		}
		var value int
		if value, err = asm.valueOf(words[1]); err != nil {
			return
		}
		var vector isa.TrapVect8
		if vector, err = isa.NewTrapVect8(value); err != nil {
			return
		}
		inst = isa.Trap{Vector: vector}
	default:
		vector, ok := trapMap[mnemonic]
		if !ok {
			err = ErrInstructionInvalid
			return
		}
		if err = operandCount(words, 0); err != nil {
			return
		}
		inst = isa.Trap{Vector: vector}
	}

	return
}

// brCondition parses the flag suffix of a BR mnemonic. An empty suffix is
// the unconditional BRnzp.
func brCondition(suffix string) (cond isa.Condition, err error) {
	if len(suffix) == 0 {
		cond = isa.Condition{N: true, Z: true, P: true}
		return
	}

	for _, flag := range strings.ToUpper(suffix) {
		switch flag {
		case 'N':
			cond.N = true
		case 'Z':
			cond.Z = true
		case 'P':
			cond.P = true
		default:
			err = ErrInstructionInvalid
			return
		}
	}

	return
}
