package brand

// Merge combines existing and incoming profiles.
// Scalars from incoming replace existing ones, lists are concatenated with duplicates removed
// in first-seen order, and keys present on one side only are kept. Inputs are not modified.
func Merge(existing, incoming Profile) Profile {
	out := Profile{}
	for name, sec := range existing {
		out[name] = mergeSection(nil, sec)
	}
	for name, sec := range incoming {
		out[name] = mergeSection(out[name], sec)
	}
	return out
}

func mergeSection(base, incoming Section) Section {
	out := make(Section, len(base)+len(incoming))
	for k, v := range base {
		out[k] = normalize(v)
	}
	for k, v := range incoming {
		cur, ok := out[k]
		if ok && cur.IsList && v.IsList {
			out[k] = normalize(L(dedupe(cur.List, v.List)...))
			continue
		}
		out[k] = normalize(v)
	}
	return out
}

func normalize(v Value) Value {
	if !v.IsList {
		return v
	}
	items := dedupe(v.List)
	if len(items) == 0 {
		items = nil
	}
	return Value{List: items, IsList: true}
}

func dedupe(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range lists {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
