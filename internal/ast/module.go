package ast

// Module is one compilation unit.
type Module struct {
	ID    NodeID  `json:"id" msgpack:"id"`
	Name  string  `json:"name" msgpack:"name"`
	Funcs []*Func `json:"funcs" msgpack:"funcs"`
}

// Func is a parameterless function. Body is expected to be a StmtBlock.
type Func struct {
	ID     NodeID `json:"id" msgpack:"id"`
	Name   string `json:"name" msgpack:"name"`
	Result Type   `json:"result" msgpack:"result"`
	Body   *Stmt  `json:"body" msgpack:"body"`
}
