package structure

import (
	"fmt"
	"io"
	"strings"

	"github.com/ddddddO/gtree"
)

const (
	appMarker  = " [app]"
	coreMarker = " [core]"
)

// Tree writes an indented preview of the project layout: directories,
// apps marked [app], and the core package marked [core].
func (m *Model) Tree(w io.Writer) error {
	root := gtree.NewRoot(m.project.Name + "/")

	nodes := map[string]*gtree.Node{"": root}
	for _, path := range m.dirOrder {
		dir := m.dirs[path]
		parent, ok := nodes[dir.ParentPath]
		if !ok {
			parent = root
		}
		label := dir.Name + "/"
		if path == m.core.Path {
			label += coreMarker
		}
		nodes[path] = parent.Add(label)
	}

	if !m.hasDir(m.core.Path) {
		parent := root
		if i := strings.LastIndex(m.core.Path, "/"); i >= 0 {
			if n, ok := nodes[m.core.Path[:i]]; ok {
				parent = n
			}
		}
		base := m.core.Path[strings.LastIndex(m.core.Path, "/")+1:]
		parent.Add(base + "/" + coreMarker)
	}

	for _, name := range m.appOrder {
		app := m.apps[name]
		parent, ok := nodes[app.Directory]
		if !ok {
			parent = root
		}
		parent.Add(app.Name + "/" + appMarker)
	}

	if err := gtree.OutputFromRoot(w, root); err != nil {
		return fmt.Errorf("render structure tree: %w", err)
	}
	return nil
}

func (m *Model) hasDir(path string) bool {
	_, ok := m.dirs[path]
	return ok
}
