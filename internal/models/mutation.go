package models

// Mutation повністю визначає поля життєвого циклу офера після переходу.
// Поля-вказівники зі значенням nil записуються як NULL, тому кожен перехід
// однозначно задає всю трійку (MatchedWith, ConfirmationCode, CodeIssuedBy).
type Mutation struct {
	Status           string
	MatchedWith      *string
	ConfirmationCode *string
	CodeIssuedBy     *string
}

// Apply переносить мутацію на офер (використовується in-memory сховищем).
func (m Mutation) Apply(o *Offer) {
	o.Status = m.Status
	o.MatchedWith = m.MatchedWith
	o.ConfirmationCode = m.ConfirmationCode
	o.CodeIssuedBy = m.CodeIssuedBy
}

// Columns повертає мутацію у вигляді map для GORM Updates.
func (m Mutation) Columns() map[string]interface{} {
	return map[string]interface{}{
		"status":            m.Status,
		"matched_with":      m.MatchedWith,
		"confirmation_code": m.ConfirmationCode,
		"code_issued_by":    m.CodeIssuedBy,
	}
}
