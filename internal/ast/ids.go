package ast

type (
	// Top-level node families.
	UnitID      uint32
	DeclID      uint32
	StmtID      uint32
	ExprID      uint32
	DirectiveID uint32
	// Sub-entities.
	CaseID uint32
	InitID uint32
)

const (
	NoUnitID      UnitID      = 0
	NoDeclID      DeclID      = 0
	NoStmtID      StmtID      = 0
	NoExprID      ExprID      = 0
	NoDirectiveID DirectiveID = 0
	NoCaseID      CaseID      = 0
	NoInitID      InitID      = 0
)

func (id UnitID) IsValid() bool      { return id != NoUnitID }
func (id DeclID) IsValid() bool      { return id != NoDeclID }
func (id StmtID) IsValid() bool      { return id != NoStmtID }
func (id ExprID) IsValid() bool      { return id != NoExprID }
func (id DirectiveID) IsValid() bool { return id != NoDirectiveID }
func (id CaseID) IsValid() bool      { return id != NoCaseID }
func (id InitID) IsValid() bool      { return id != NoInitID }
