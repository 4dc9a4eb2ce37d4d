package block

// NameBlocks assigns a diagnostic label to every block in the tree
// rooted at root: "_" for root, then each child appends a letter to its
// parent's name ("a", "b", ..., "z", "A", ...). This is the SUPPLEMENTED
// diagnostic-naming feature the `analyze --name-blocks` CLI mode uses; it
// never runs during normal instrumentation, only to make analyzer output
// human-readable.
//
// Adapted directly from the teacher's lang/resolver/naming.go
// nameBlock/letterFor walk, generalized from a per-binding BlockName
// backfill (Starlark's resolver prints bindings, not blocks) to setting
// Block.Name itself, since spec.md's function-info JSON already carries
// blockName alongside blockId per scope entry.
func NameBlocks(root *Block) {
	if root.Name == "" {
		root.Name = "_"
	}
	nameChildren(root)
}

func nameChildren(b *Block) {
	for i, cb := range b.Children {
		cb.Name = b.Name + letterFor(i)
		nameChildren(cb)
	}
}

func letterFor(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	if i < 52 {
		return string(rune('A' + i - 26))
	}
	return "?"
}
