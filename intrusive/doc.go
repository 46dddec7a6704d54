// Package intrusive implements a reference-counted handle whose count is
// embedded in the payload itself.
//
// Compared to the shared package there is no control block and no weak
// observation: the payload carries its own Counter, and Ptr is the strong
// handle over it. Use it when the payload type is yours to define and the
// extra word of an out-of-line block is unwelcome.
//
//	type Conn struct {
//		intrusive.Counter
//		fd int
//	}
//
//	func (c *Conn) Drop() { closeFd(c.fd) }
//
//	p := intrusive.Wrap(&Conn{fd: fd}) // count 1
//	q := p.Clone()                     // count 2
//	p.Release()
//	q.Release()                        // Drop runs here
//
// The same single-goroutine contract as the shared package applies.
package intrusive
