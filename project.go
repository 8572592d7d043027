package disclosure

// Project narrows a metadata document before it is returned whole.
// include keeps only the listed top-level keys (all keys when empty);
// exclude drops the listed keys at every depth. Default exclusion lists are
// supplied by the caller. doc is not modified.
func Project(doc Value, include, exclude []string) Value {
	drop := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		drop[k] = struct{}{}
	}

	if len(include) > 0 && doc.Kind() == KindObject {
		keep := make(map[string]struct{}, len(include))
		for _, k := range include {
			keep[k] = struct{}{}
		}
		src, _ := doc.Object()
		o := NewObject()
		for i := 0; i < src.Len(); i++ {
			if k, v := src.At(i); hasKey(keep, k) {
				o.Set(k, v)
			}
		}
		doc = ObjectValue(o)
	}
	if len(drop) == 0 {
		return doc
	}
	return dropKeys(doc, drop)
}

func dropKeys(v Value, drop map[string]struct{}) Value {
	switch v.Kind() {
	case KindArray:
		items := v.Items()
		out := make([]Value, len(items))
		for i, item := range items {
			out[i] = dropKeys(item, drop)
		}
		return Array(out...)
	case KindObject:
		src, _ := v.Object()
		o := NewObject()
		for i := 0; i < src.Len(); i++ {
			k, child := src.At(i)
			if _, excluded := drop[k]; excluded {
				continue
			}
			o.Set(k, dropKeys(child, drop))
		}
		return ObjectValue(o)
	default:
		return v
	}
}

func hasKey(set map[string]struct{}, k string) bool {
	_, ok := set[k]
	return ok
}
