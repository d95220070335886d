package svf

// stateAlt is the token alternation every state-name capture repeats
// verbatim. Each grammar rule spells it out in full rather than
// factoring it into a shared production:
//
//	@( KwRESET | KwRUN_TEST_IDLE | KwIDLE | KwIRSELECT | KwDRSELECT |
//	   KwIRCAPTURE | KwDRCAPTURE | KwIRSHIFT | KwDRSHIFT | KwIREXIT1 |
//	   KwDREXIT1 | KwIRPAUSE | KwDRPAUSE | KwIREXIT2 | KwDREXIT2 |
//	   KwIRUPDATE | KwDRUPDATE )

// File is a parsed SVF document: a flat sequence of commands. SVF has no
// nesting and no control flow, so the grammar is just a repetition of
// one command alternation.
type File struct {
	Commands []*Command `@@*`
}

// Command is the union of every SVF statement this package understands,
// expressed as sibling pointer fields rather than a single tagged
// struct: at most one is non-nil after a successful parse.
type Command struct {
	State     *StateCmd     `  @@`
	Sir       *SirCmd       `| @@`
	Sdr       *SdrCmd       `| @@`
	Hir       *HirCmd       `| @@`
	Tir       *TirCmd       `| @@`
	Hdr       *HdrCmd       `| @@`
	Tdr       *TdrCmd       `| @@`
	RunTest   *RunTestCmd   `| @@`
	Frequency *FrequencyCmd `| @@`
	Trst      *TrstCmd      `| @@`
	EndIR     *EndIRCmd     `| @@`
	EndDR     *EndDRCmd     `| @@`
	Unknown   *UnknownCmd   `| @@`
}

// StateCmd is SVF's STATE command: move directly to the named stable
// state.
type StateCmd struct {
	_    string `KwSTATE`
	Name string `@( KwRESET | KwRUN_TEST_IDLE | KwIDLE | KwIRSELECT | KwDRSELECT | KwIRCAPTURE | KwDRCAPTURE | KwIRSHIFT | KwDRSHIFT | KwIREXIT1 | KwDREXIT1 | KwIRPAUSE | KwDRPAUSE | KwIREXIT2 | KwDREXIT2 | KwIRUPDATE | KwDRUPDATE )`
	Semi string `Semicolon`
}

// ShiftFields is the TDI/TDO/MASK/SMASK payload shared by SIR/SDR/HIR/
// TIR/HDR/TDR. Only the bit length is mandatory; the rest default to
// absent, matching SVF's own optionality.
type ShiftFields struct {
	Length int     `@Integer`
	TDI    *string `(KwTDI @HexLiteral)?`
	TDO    *string `(KwTDO @HexLiteral)?`
	Mask   *string `(KwMASK @HexLiteral)?`
	SMask  *string `(KwSMASK @HexLiteral)?`
}

// SirCmd shifts the instruction register.
type SirCmd struct {
	_      string      `KwSIR`
	Fields ShiftFields `@@`
	Semi   string      `Semicolon`
}

// SdrCmd shifts the data register.
type SdrCmd struct {
	_      string      `KwSDR`
	Fields ShiftFields `@@`
	Semi   string      `Semicolon`
}

// HirCmd installs a fixed header in front of every subsequent SIR.
type HirCmd struct {
	_      string      `KwHIR`
	Fields ShiftFields `@@`
	Semi   string      `Semicolon`
}

// TirCmd installs a fixed trailer behind every subsequent SIR.
type TirCmd struct {
	_      string      `KwTIR`
	Fields ShiftFields `@@`
	Semi   string      `Semicolon`
}

// HdrCmd installs a fixed header in front of every subsequent SDR.
type HdrCmd struct {
	_      string      `KwHDR`
	Fields ShiftFields `@@`
	Semi   string      `Semicolon`
}

// TdrCmd installs a fixed trailer behind every subsequent SDR.
type TdrCmd struct {
	_      string      `KwTDR`
	Fields ShiftFields `@@`
	Semi   string      `Semicolon`
}

// RunTestCmd is SVF's RUNTEST command: an optional run state, a clock
// count or a minimum time, an optional MAXIMUM clause, and an optional
// ENDSTATE clause.
type RunTestCmd struct {
	_         string   `KwRUNTEST`
	RunState  *string  `(@( KwRESET | KwRUN_TEST_IDLE | KwIDLE | KwIRSELECT | KwDRSELECT | KwIRCAPTURE | KwDRCAPTURE | KwIRSHIFT | KwDRSHIFT | KwIREXIT1 | KwDREXIT1 | KwIRPAUSE | KwDRPAUSE | KwIREXIT2 | KwDREXIT2 | KwIRUPDATE | KwDRUPDATE ))?`
	Cycles    *int     `( ( @Integer KwTCK )`
	Seconds   *float64 `  | ( @Float ( KwSEC | KwUSEC | KwMSEC ) ) )?`
	MaxCycles *int     `( KwMAXIMUM ( ( @Integer KwTCK )`
	MaxSecs   *float64 `  | ( @Float ( KwSEC | KwUSEC | KwMSEC ) ) ) )?`
	EndState  *string  `( KwENDSTATE @( KwRESET | KwRUN_TEST_IDLE | KwIDLE | KwIRSELECT | KwDRSELECT | KwIRCAPTURE | KwDRCAPTURE | KwIRSHIFT | KwDRSHIFT | KwIREXIT1 | KwDREXIT1 | KwIRPAUSE | KwDRPAUSE | KwIREXIT2 | KwDREXIT2 | KwIRUPDATE | KwDRUPDATE ) )?`
	Semi      string   `Semicolon`
}

// FrequencyCmd bounds the TCK rate. Advisory only: this implementation
// does not throttle TCK, but it logs the request.
type FrequencyCmd struct {
	_    string   `KwFREQUENCY`
	Hz   *float64 `( @Float | @Integer )?`
	Unit *string  `(@KwHZ)?`
	Semi string   `Semicolon`
}

// TrstCmd drives TRST. No adapter in this package models a discrete
// TRST line, so this is logged and otherwise ignored.
type TrstCmd struct {
	_    string `KwTRST`
	Mode string `@( KwON | KwOFF | KwZ | KwABSENT )`
	Semi string `Semicolon`
}

// EndIRCmd sets the stable state shift_ir returns to.
type EndIRCmd struct {
	_     string `KwENDIR`
	State string `@( KwRESET | KwRUN_TEST_IDLE | KwIDLE | KwIRSELECT | KwDRSELECT | KwIRCAPTURE | KwDRCAPTURE | KwIRSHIFT | KwDRSHIFT | KwIREXIT1 | KwDREXIT1 | KwIRPAUSE | KwDRPAUSE | KwIREXIT2 | KwDREXIT2 | KwIRUPDATE | KwDRUPDATE )`
	Semi  string `Semicolon`
}

// EndDRCmd sets the stable state shift_dr returns to.
type EndDRCmd struct {
	_     string `KwENDDR`
	State string `@( KwRESET | KwRUN_TEST_IDLE | KwIDLE | KwIRSELECT | KwDRSELECT | KwIRCAPTURE | KwDRCAPTURE | KwIRSHIFT | KwDRSHIFT | KwIREXIT1 | KwDREXIT1 | KwIRPAUSE | KwDRPAUSE | KwIREXIT2 | KwDREXIT2 | KwIRUPDATE | KwDRUPDATE )`
	Semi  string `Semicolon`
}

// UnknownCmd is the catch-all for SVF constructs this package does not
// execute: log and skip rather than fail the run. It captures every
// token up to the terminating semicolon as raw text.
type UnknownCmd struct {
	Keyword string   `@Ident`
	Tokens  []string `( @Ident | @Integer | @Float | @HexLiteral )*`
	Semi    string   `Semicolon`
}
