// Package artifact persists finished recruiting ads.
//
// Ads are stored under a name derived from the job title: the title is
// lowercased, spaces become underscores and every other character outside
// letters, digits, '_' and '-' is replaced, so titles such as
// "Senior Electrician (m/f/d)" map to "senior_electrician_m_f_d". FileStore
// writes flat text files into a work directory; InMemoryStore keeps them in
// memory for tests and dry runs.
package artifact
