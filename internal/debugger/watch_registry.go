// watch_registry.go - CRUD over a set of Watches (spec.md §4.8: "add,
// remove, clear, list are straightforward").
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

// Watches is the memory-watch registry. The zero value is ready to use.
type Watches struct {
	entries map[Handle]Watch
	order   []Handle
	next    Handle
}

func (r *Watches) Add(w Watch) Handle {
	if r.entries == nil {
		r.entries = make(map[Handle]Watch)
	}
	r.next++
	h := r.next
	r.entries[h] = w
	r.order = append(r.order, h)
	return h
}

func (r *Watches) Remove(h Handle) {
	if _, ok := r.entries[h]; !ok {
		return
	}
	delete(r.entries, h)
	for i, oh := range r.order {
		if oh == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Watches) Clear() {
	r.entries = make(map[Handle]Watch)
	r.order = nil
}

func (r *Watches) Get(h Handle) (Watch, bool) {
	w, ok := r.entries[h]
	return w, ok
}

// List returns every registered watch in registration order.
func (r *Watches) List() []Watch {
	out := make([]Watch, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, r.entries[h])
	}
	return out
}

// RenderAll returns the display string for every registered watch, keyed
// by its handle. The map carries no order; List gives registration order.
func (r *Watches) RenderAll(mem MemoryReader) map[Handle]string {
	out := make(map[Handle]string, len(r.order))
	for _, h := range r.order {
		out[h] = r.entries[h].Render(mem)
	}
	return out
}
