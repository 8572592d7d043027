package disclosure

// walkCalls visits every shard record under doc.calls, tasks in insertion
// order and records in array order. visit receives the task name, the
// record's position, the task's record count and the record itself.
//
// A missing calls field is not an error. Records of the wrong shape fail the
// walk unless skipMalformed is set, in which case they are counted and
// skipped. The count is returned either way.
func walkCalls(doc Value, skipMalformed bool, visit func(task string, pos, n int, shard Value)) (int, error) {
	if doc.Kind() != KindObject {
		return 0, malformed("", "execution document must be an object, got %s", doc.Kind())
	}
	calls, ok := doc.Get("calls")
	if !ok {
		return 0, nil
	}
	tasks, ok := calls.Object()
	if !ok {
		if skipMalformed {
			return 1, nil
		}
		return 0, malformed("calls", "calls must be an object, got %s", calls.Kind())
	}

	skipped := 0
	for i := 0; i < tasks.Len(); i++ {
		task, shards := tasks.At(i)
		taskPath := joinField("calls", task)
		if shards.Kind() != KindArray {
			if skipMalformed {
				skipped++
				continue
			}
			return skipped, malformed(taskPath, "%s must be an array of shard records, got %s", taskPath, shards.Kind())
		}
		items := shards.Items()
		for j, shard := range items {
			if shard.Kind() != KindObject {
				if skipMalformed {
					skipped++
					continue
				}
				at := joinIndex(taskPath, j)
				return skipped, malformed(at, "shard record %s must be an object, got %s", at, shard.Kind())
			}
			visit(task, j, len(items), shard)
		}
	}
	return skipped, nil
}
