package analytics

import "github.com/danielmmetz/hn-pulse/store"

// SubmitterLimit is the number of submitters kept by TopSubmitters.
const SubmitterLimit = 10

// Submitter is a user with the number of stories they submitted.
type Submitter struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopSubmitters ranks story authors by story count, descending, keeping the
// first limit. Ties keep first-seen order.
func TopSubmitters(stories []store.Story, limit int) []Submitter {
	counts := make(map[string]int)
	var order []string
	for _, st := range stories {
		if st.By == "" {
			continue
		}
		if _, seen := counts[st.By]; !seen {
			order = append(order, st.By)
		}
		counts[st.By]++
	}
	return rank(order, counts, limit, func(k string, n int) Submitter {
		return Submitter{Name: k, Count: n}
	})
}
