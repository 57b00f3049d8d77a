package dot

// registry records which states already have a node in the output and
// which cluster, if any, each compound state was given.
//
// Cluster numbers start at 1; 0 means "not a cluster" and is also what
// unknown ids report. A registry belongs to exactly one run.
type registry struct {
	clusters map[string]int // state id -> cluster number (0 = plain node)
	next     int
}

func newRegistry() *registry {
	return &registry{clusters: make(map[string]int), next: 1}
}

// isEmitted reports whether id has been registered.
func (r *registry) isEmitted(id string) bool {
	_, ok := r.clusters[id]
	return ok
}

// markEmitted registers id with the given cluster number.
// Registering an id twice keeps the first registration.
func (r *registry) markEmitted(id string, cluster int) {
	if r.isEmitted(id) {
		return
	}
	r.clusters[id] = cluster
}

// clusterOf returns the cluster number of id, or 0.
func (r *registry) clusterOf(id string) int {
	return r.clusters[id]
}

// allocCluster hands out the next cluster number. Numbers are never reused.
func (r *registry) allocCluster() int {
	n := r.next
	r.next++
	return n
}

// count returns the number of registered states.
func (r *registry) count() int { return len(r.clusters) }
