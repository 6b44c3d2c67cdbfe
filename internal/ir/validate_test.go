package ir_test

import (
	"strings"
	"testing"

	"lowc/internal/ir"
)

// countdown builds: var i = 10; while (i > 0) { i = i - 1 }; return i
func countdown() *ir.Func {
	f := ir.NewFunc("countdown", ir.TypeI32, nil)
	b := ir.NewBuilder(f)
	entry := b.NewBlock()
	b.SetBlock(entry)
	i := b.Alloc("i", ir.TypeI32)
	b.Store(i, ir.ConstI32(10))
	cond, body, exit := b.NewBlock(), b.NewBlock(), b.NewBlock()
	b.Goto(cond)
	b.SetBlock(cond)
	b.If(b.Compare(ir.CmpGt, b.Load(i), ir.ConstI32(0)), body, exit)
	b.SetBlock(body)
	b.Store(i, b.Binary(ir.BinSub, b.Load(i), ir.ConstI32(1)))
	b.Goto(cond)
	b.SetBlock(exit)
	b.Return(b.Load(i))
	return b.Finalize()
}

func TestValidate_ValidPrograms(t *testing.T) {
	m := &ir.Module{}
	m.Add(countdown())

	void := ir.NewFunc("main", ir.TypeVoid, nil)
	b := ir.NewBuilder(void)
	b.SetBlock(b.NewBlock())
	b.ReturnVoid()
	m.Add(b.Finalize())

	if err := ir.Validate(m); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name string
		fn   func() *ir.Func
		want string
	}{
		{
			name: "unterminated",
			fn: func() *ir.Func {
				f := ir.NewFunc("f", ir.TypeVoid, nil)
				ir.NewBuilder(f).NewBlock()
				return f
			},
			want: "unterminated block",
		},
		{
			name: "missing_target",
			fn: func() *ir.Func {
				f := ir.NewFunc("f", ir.TypeVoid, nil)
				b := ir.NewBuilder(f)
				b.SetBlock(b.NewBlock())
				b.Goto(7)
				return f
			},
			want: "goto target bb7 does not exist",
		},
		{
			name: "store_type_mismatch",
			fn: func() *ir.Func {
				f := ir.NewFunc("f", ir.TypeVoid, nil)
				b := ir.NewBuilder(f)
				b.SetBlock(b.NewBlock())
				b.Store(b.Alloc("x", ir.TypeI32), ir.ConstBool(true))
				b.ReturnVoid()
				return f
			},
			want: "store of i1 into L0 of type i32",
		},
		{
			name: "missing_return_value",
			fn: func() *ir.Func {
				f := ir.NewFunc("f", ir.TypeI32, nil)
				b := ir.NewBuilder(f)
				b.SetBlock(b.NewBlock())
				b.ReturnVoid()
				return f
			},
			want: "missing return value of type i32",
		},
		{
			name: "non_boolean_condition",
			fn: func() *ir.Func {
				f := ir.NewFunc("f", ir.TypeVoid, nil)
				b := ir.NewBuilder(f)
				entry, next := b.NewBlock(), b.NewBlock()
				b.SetBlock(entry)
				b.If(ir.ConstI32(1), next, next)
				b.SetBlock(next)
				b.ReturnVoid()
				return f
			},
			want: "if condition has type i32",
		},
		{
			name: "undefined_value",
			fn: func() *ir.Func {
				f := ir.NewFunc("f", ir.TypeI32, nil)
				b := ir.NewBuilder(f)
				b.SetBlock(b.NewBlock())
				b.Return(ir.ValueOperand(3, ir.TypeI32))
				return f
			},
			want: "use of undefined value %3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &ir.Module{}
			m.Add(tt.fn())
			err := ir.Validate(m)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestBuilder_SkipsTerminatedBlock(t *testing.T) {
	f := ir.NewFunc("f", ir.TypeI32, nil)
	b := ir.NewBuilder(f)
	b.SetBlock(b.NewBlock())
	b.Return(ir.ConstI32(1))

	v := b.Binary(ir.BinAdd, ir.ConstI32(1), ir.ConstI32(2))
	b.Return(ir.ConstI32(2))

	if v.Kind != ir.OperandUndef {
		t.Fatalf("expected undef operand, got %s", v)
	}
	if len(f.Blocks[0].Instrs) != 0 {
		t.Fatalf("expected no instructions, got %d", len(f.Blocks[0].Instrs))
	}
	if got := f.Blocks[0].Term.Return.Value.Const; got != 1 {
		t.Fatalf("terminator was overwritten: ret %d", got)
	}
}

func TestDump(t *testing.T) {
	var sb strings.Builder
	if err := ir.DumpFunc(&sb, countdown()); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := `fn countdown() -> i32:
  locals:
    L0: i32 name=i
  bb0:
    store L0, 10:i32
    goto bb1
  bb1:
    %0 = load L0
    %1 = icmp sgt %0, 0:i32
    if %1 ? bb2 : bb3
  bb2:
    %2 = load L0
    %3 = sub %2, 1:i32
    store L0, %3
    goto bb1
  bb3:
    %4 = load L0
    ret %4
`
	if sb.String() != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", sb.String(), want)
	}
}
