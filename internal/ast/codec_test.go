package ast_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowc/internal/ast"
)

func sampleModule() *ast.Module {
	b := ast.NewBuilder()
	body := b.Block(
		b.Var("i", ast.TypeInt, b.Int(0)),
		b.While(
			b.Binary(ast.BinaryLt, b.Ident("i"), b.Int(10)),
			b.Block(b.Assign(b.Ident("i"), b.Binary(ast.BinaryAdd, b.Ident("i"), b.Int(1)))),
		),
		b.If(b.Unary(ast.UnaryNot, b.Bool(false)), b.Return(b.Ident("i")), nil),
		b.Return(b.Int(0)),
	)
	return b.Module("sample", b.Func("main", ast.TypeInt, body))
}

func TestCodecRoundTrip(t *testing.T) {
	for _, format := range []ast.Format{ast.FormatMsgpack, ast.FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			in := &ast.File{Producer: "0.1.0", Module: sampleModule()}

			var buf bytes.Buffer
			require.NoError(t, ast.Encode(&buf, in, format))

			out, err := ast.Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, ast.FileSchema, out.Schema)
			assert.Equal(t, "0.1.0", out.Producer)
			assert.Equal(t, in.Module, out.Module)
		})
	}
}

func TestDecodeJSONUsesNames(t *testing.T) {
	src := `{
  "schema": 1,
  "module": {
    "id": 1,
    "name": "m",
    "funcs": [{
      "id": 2, "name": "main", "result": "Int",
      "body": {"id": 3, "kind": "block", "block": {"stmts": [
        {"id": 4, "kind": "return", "return": {"value":
          {"id": 5, "kind": "binary", "binary": {"op": "*",
            "left": {"id": 6, "kind": "int", "int": 6},
            "right": {"id": 7, "kind": "int", "int": 7}}}}}
      ]}}
    }]
  }
}`
	f, err := ast.Decode(strings.NewReader(src), ast.FormatJSON)
	require.NoError(t, err)

	ret := f.Module.Funcs[0].Body.Block.Stmts[0]
	require.Equal(t, ast.StmtReturn, ret.Kind)
	assert.Equal(t, ast.BinaryMul, ret.Return.Value.Binary.Op)
	assert.Equal(t, "(6 * 7)", ast.ExprString(ret.Return.Value))
}

func TestDecodeNormalizesIdentifiers(t *testing.T) {
	b := ast.NewBuilder()
	decomposed := "cafe\u0301"
	m := b.Module("m", b.Func("main", ast.TypeInt, b.Block(
		b.Val(decomposed, ast.TypeInt, b.Int(1)),
		b.Return(b.Ident(decomposed)),
	)))

	var buf bytes.Buffer
	require.NoError(t, ast.Encode(&buf, &ast.File{Module: m}, ast.FormatMsgpack))
	f, err := ast.Decode(&buf, ast.FormatMsgpack)
	require.NoError(t, err)

	stmts := f.Module.Funcs[0].Body.Block.Stmts
	assert.Equal(t, "caf\u00e9", stmts[0].Decl.Name)
	assert.Equal(t, "caf\u00e9", stmts[1].Return.Value.Name)
}

func TestDecodeRejectsBadFiles(t *testing.T) {
	t.Run("schema", func(t *testing.T) {
		_, err := ast.Decode(strings.NewReader(`{"schema": 99, "module": {"id": 1, "name": "m", "funcs": []}}`), ast.FormatJSON)
		require.ErrorIs(t, err, ast.ErrSchema)
	})
	t.Run("duplicate ids", func(t *testing.T) {
		m := sampleModule()
		m.Funcs[0].Body.ID = m.Funcs[0].ID
		var buf bytes.Buffer
		require.NoError(t, ast.Encode(&buf, &ast.File{Module: m}, ast.FormatJSON))
		_, err := ast.Decode(&buf, ast.FormatJSON)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate node id")
	})
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ast.Dump(&buf, sampleModule()))
	out := buf.String()
	assert.Contains(t, out, "fn main() -> Int {")
	assert.Contains(t, out, "var i: Int = 0;")
	assert.Contains(t, out, "while (i < 10) {")
	assert.Contains(t, out, "i = (i + 1);")
	assert.Contains(t, out, "if !false {")
}
