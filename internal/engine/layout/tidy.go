package layout

// wnode is the working state of one node during the tidy tree passes.
// Field names follow the usual Buchheim et al. notation: z is the preliminary
// breadth coordinate, m the modifier, c and s the change and shift accumulated
// for even spacing, t the thread, a the ancestor and A the default ancestor.
type wnode struct {
	id       string
	width    float64
	parent   *wnode
	children []*wnode
	i        int

	A, a, t    *wnode
	z, m, c, s float64

	breadth float64
	depth   int
}

type separationFunc func(a, b *wnode) float64

func nextLeft(v *wnode) *wnode {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.t
}

func nextRight(v *wnode) *wnode {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.t
}

func moveSubtree(wm, wp *wnode, shift float64) {
	change := shift / float64(wp.i-wm.i)
	wp.c -= change
	wp.s += shift
	wm.c += change
	wp.z += shift
	wp.m += shift
}

func executeShifts(v *wnode) {
	shift, change := 0.0, 0.0
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.z += shift
		w.m += shift
		change += w.c
		shift += w.s + change
	}
}

func nextAncestor(vim, v, ancestor *wnode) *wnode {
	if vim.a.parent == v.parent {
		return vim.a
	}
	return ancestor
}

// tidy assigns a breadth coordinate (in separation units) to every node of the
// tree rooted at root, such that subtrees never overlap and parents are
// centered over their children.
func tidy(root *wnode, separation separationFunc) {
	virtual := &wnode{children: []*wnode{root}}
	root.parent = virtual
	root.a = root

	var firstWalk func(v *wnode)
	firstWalk = func(v *wnode) {
		for _, child := range v.children {
			firstWalk(child)
		}

		siblings := v.parent.children
		var w *wnode
		if v.i > 0 {
			w = siblings[v.i-1]
		}

		if len(v.children) > 0 {
			executeShifts(v)
			midpoint := (v.children[0].z + v.children[len(v.children)-1].z) / 2
			if w != nil {
				v.z = w.z + separation(v, w)
				v.m = v.z - midpoint
			} else {
				v.z = midpoint
			}
		} else if w != nil {
			v.z = w.z + separation(v, w)
		}

		ancestor := v.parent.A
		if ancestor == nil {
			ancestor = siblings[0]
		}
		v.parent.A = apportion(v, w, ancestor, separation)
	}

	var secondWalk func(v *wnode)
	secondWalk = func(v *wnode) {
		v.breadth = v.z + v.parent.m
		v.m += v.parent.m
		for _, child := range v.children {
			secondWalk(child)
		}
	}

	firstWalk(root)
	virtual.m = -root.z
	secondWalk(root)
	root.parent = nil
}

func apportion(v, w, ancestor *wnode, separation separationFunc) *wnode {
	if w == nil {
		return ancestor
	}

	vip, vop := v, v
	vim := w
	vom := vip.parent.children[0]
	sip, sop := vip.m, vop.m
	sim, som := vim.m, vom.m

	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.a = v

		shift := vim.z + sim - vip.z - sip + separation(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.m
		sip += vip.m
		som += vom.m
		sop += vop.m
	}

	if vim != nil && nextRight(vop) == nil {
		vop.t = vim
		vop.m += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.t = vip
		vom.m += sip - som
		ancestor = v
	}
	return ancestor
}
