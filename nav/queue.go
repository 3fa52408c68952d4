package nav

type queueItem struct {
	node     Node
	cost     float64
	priority float64
	index    int
}

// frontier is a min-heap on (priority, node).
type frontier []*queueItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].node.Less(f[j].node)
}
func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}
func (f *frontier) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*f)
	*f = append(*f, item)
}
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}
