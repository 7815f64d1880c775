// Package reactive implements the derived-value graph behind a dashboard session.
//
// A Blueprint declares a fixed set of named nodes at startup. Each node states
// its upstream dependencies explicitly: the Selection cell and/or nodes defined
// before it. Instantiating the first Graph seals the Blueprint.
//
// A Graph owns one Selection value, a generation counter and a cache slot per
// node. Writing the Selection bumps the generation; nothing is recomputed until
// a node is read. A read recomputes a node only when it depends (directly or
// transitively) on the Selection and its slot was filled under an older
// generation, so each node is computed at most once per write.
//
// Basic usage:
//
//	bp := reactive.NewBlueprint()
//	upper := reactive.MustDefine(bp, "upper", reactive.On(reactive.Selection),
//	    func(s *reactive.Scope) (string, error) {
//	        return strings.ToUpper(s.Selection()), nil
//	    })
//
//	g, _ := bp.NewGraph("Japan", nil)
//	v, _ := reactive.Get(g, upper) // "JAPAN"
//	_ = g.Select("Canada")
//	v, _ = reactive.Get(g, upper)  // "CANADA"
//
// Graphs are independent: one session's write never touches another's cache.
package reactive
