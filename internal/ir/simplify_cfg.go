package ir

// SimplifyCFG performs control flow graph simplification on a function.
// Transformations:
// 1. Remove trivial goto blocks (0 instructions + goto terminator)
// 2. Collapse goto chains
// 3. Remove unreachable blocks
// 4. Renumber blocks deterministically
func SimplifyCFG(f *Func) {
	if f == nil || len(f.Blocks) == 0 {
		return
	}
	redirects := buildRedirectMap(f)
	applyRedirects(f, redirects)
	compactBlocks(f, computeReachability(f))
}

// buildRedirectMap maps every trivial goto block to the first non-trivial
// block its chain ends in. Cycles of empty blocks stop at the first repeat.
func buildRedirectMap(f *Func) map[BlockID]BlockID {
	redirects := make(map[BlockID]BlockID)
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if !isTrivialGoto(bb) {
			continue
		}
		target := bb.Term.Goto.Target
		visited := map[BlockID]bool{bb.ID: true}
		for !visited[target] {
			visited[target] = true
			if next, ok := redirects[target]; ok {
				target = next
				continue
			}
			if next := f.Block(target); next != nil && isTrivialGoto(next) {
				target = next.Term.Goto.Target
				continue
			}
			break
		}
		redirects[bb.ID] = target
	}
	return redirects
}

func isTrivialGoto(bb *Block) bool {
	return len(bb.Instrs) == 0 && bb.Term.Kind == TermGoto
}

func retarget(t *Terminator, fn func(BlockID) BlockID) {
	switch t.Kind {
	case TermGoto:
		t.Goto.Target = fn(t.Goto.Target)
	case TermIf:
		t.If.Then = fn(t.If.Then)
		t.If.Else = fn(t.If.Else)
	}
}

func applyRedirects(f *Func, redirects map[BlockID]BlockID) {
	if len(redirects) == 0 {
		return
	}
	redirect := func(id BlockID) BlockID {
		if to, ok := redirects[id]; ok {
			return to
		}
		return id
	}
	for i := range f.Blocks {
		retarget(&f.Blocks[i].Term, redirect)
	}
	f.Entry = redirect(f.Entry)
}

// computeReachability marks blocks reachable from the entry.
func computeReachability(f *Func) []bool {
	reachable := make([]bool, len(f.Blocks))
	stack := []BlockID{f.Entry}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < 0 || int(id) >= len(f.Blocks) || reachable[id] {
			continue
		}
		reachable[id] = true
		succ := f.Blocks[id].Term.Successors()
		for i := len(succ) - 1; i >= 0; i-- {
			stack = append(stack, succ[i])
		}
	}
	return reachable
}

// compactBlocks removes unreachable blocks and renumbers the rest in their
// original order.
func compactBlocks(f *Func, reachable []bool) {
	oldToNew := make(map[BlockID]BlockID, len(f.Blocks))
	kept := make([]Block, 0, len(f.Blocks))
	for i, keep := range reachable {
		if keep {
			oldToNew[BlockID(i)] = BlockID(len(kept)) //nolint:gosec // G115: bounded by existing block count
			kept = append(kept, f.Blocks[i])
		}
	}
	remap := func(id BlockID) BlockID {
		if to, ok := oldToNew[id]; ok {
			return to
		}
		return id
	}
	for i := range kept {
		kept[i].ID = BlockID(i) //nolint:gosec // G115: bounded by kept length
		retarget(&kept[i].Term, remap)
	}
	f.Blocks = kept
	f.Entry = remap(f.Entry)
}
