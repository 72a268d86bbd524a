package canvas

import (
	"fmt"

	"chip-tracer/internal/entity"
	"chip-tracer/internal/persist"
)

// Serialize drops degenerate wires and writes the store to path.
func (e *Engine) Serialize(path string) error {
	if n := e.store.WipeGarbage(); n > 0 {
		e.log.Info("wiped degenerate wires", "count", n)
		e.countsChanged()
	}
	if err := persist.Save(path, e.store.All()); err != nil {
		return err
	}
	e.log.Info("entities saved", "path", path, "count", e.store.Len())
	return nil
}

// Unserialize loads entities from path, appending them to the store when
// merge is set and replacing it otherwise. The store is left untouched if
// the file cannot be read. Afterwards degenerate wires are dropped and the
// store is sorted by priority.
func (e *Engine) Unserialize(path string, merge bool) error {
	loaded, err := persist.Load(path)
	if err != nil {
		return err
	}

	var items []*entity.Entity
	if merge {
		current := e.store.All()
		persist.Reassign(current, loaded)
		items = append(current, loaded...)
	} else {
		items = loaded
	}
	items = persist.WipeGarbage(items)

	e.store.Replace(items)
	e.store.SortByPriority()

	e.dragSet = nil
	if e.state == gestureDragging {
		e.state = gestureIdle
	}
	e.inspect(nil)
	e.countsChanged()
	e.operation(fmt.Sprintf("load %d entities", len(loaded)))

	e.log.Info("entities loaded", "path", path, "count", len(loaded), "merge", merge)
	return nil
}
