package shared

import (
	"testing"
)

// payload is the test payload; drops counts Drop invocations.
type payload struct {
	value int
	drops *int
}

func (p *payload) Drop() {
	if p.drops != nil {
		*p.drops++
	}
}

func TestNew_CopyThenRelease(t *testing.T) {
	drops := 0
	a := New(payload{value: 5, drops: &drops})

	b := a.Clone()
	if a.RefCount() != 2 {
		t.Fatalf("expected strong count 2 after clone, got %d", a.RefCount())
	}

	a.Release()
	if b.RefCount() != 1 {
		t.Fatalf("expected strong count 1, got %d", b.RefCount())
	}
	if b.Get().value != 5 {
		t.Fatalf("payload must survive while owned, got %d", b.Get().value)
	}
	if drops != 0 {
		t.Fatal("payload must not be dropped while owned")
	}

	b.Release()
	if drops != 1 {
		t.Fatalf("expected exactly one drop, got %d", drops)
	}
}

func TestFrom_DropperUsedWhenNoFinalizer(t *testing.T) {
	drops := 0
	s := From(&payload{drops: &drops}, nil)
	s.Release()
	if drops != 1 {
		t.Fatalf("expected Drop to run once, got %d", drops)
	}
}

func TestFrom_FinalizerWinsOverDropper(t *testing.T) {
	drops, fins := 0, 0
	s := From(&payload{drops: &drops}, func(*payload) { fins++ })
	s.Release()
	if fins != 1 {
		t.Fatalf("expected finalizer to run once, got %d", fins)
	}
	if drops != 0 {
		t.Fatal("Drop must not run when an explicit finalizer is set")
	}
}

func TestFrom_NilPointer(t *testing.T) {
	s := From[payload](nil, nil)
	if !s.IsNil() {
		t.Fatal("nil payload must yield an empty handle")
	}
	if s.RefCount() != 0 {
		t.Fatal("empty handle must report strong count 0")
	}
	s.Release() // no-op
}

func TestRelease_EmptyHandleIsNoop(t *testing.T) {
	var s Shared[int]
	s.Release()
	s.Release()
}

func TestRelease_DoubleReleaseDecrementsOnce(t *testing.T) {
	drops := 0
	a := New(payload{drops: &drops})
	b := a.Clone()

	a.Release()
	a.Release() // a is already empty; must not touch the counter

	if b.RefCount() != 1 {
		t.Fatalf("expected strong count 1, got %d", b.RefCount())
	}
	b.Release()
	if drops != 1 {
		t.Fatalf("expected exactly one drop, got %d", drops)
	}
}

func TestAssign_ReplacesHold(t *testing.T) {
	oldDrops, newDrops := 0, 0
	dst := New(payload{value: 1, drops: &oldDrops})
	src := New(payload{value: 2, drops: &newDrops})

	dst.Assign(src)
	if oldDrops != 1 {
		t.Fatal("assignment must release the previous payload")
	}
	if dst.Get().value != 2 {
		t.Fatal("assignment must adopt the source payload")
	}
	if dst.RefCount() != 2 {
		t.Fatalf("expected shared count 2, got %d", dst.RefCount())
	}

	dst.Release()
	src.Release()
	if newDrops != 1 {
		t.Fatalf("expected exactly one drop, got %d", newDrops)
	}
}

func TestAssign_SelfIsSafe(t *testing.T) {
	drops := 0
	s := New(payload{value: 7, drops: &drops})

	s.Assign(s)
	if drops != 0 {
		t.Fatal("self-assignment must not tear down the payload")
	}
	if s.RefCount() != 1 {
		t.Fatalf("expected strong count 1, got %d", s.RefCount())
	}

	s.Release()
	if drops != 1 {
		t.Fatalf("expected exactly one drop, got %d", drops)
	}
}

func TestMove_TransfersWithoutCounterTraffic(t *testing.T) {
	drops := 0
	a := New(payload{value: 9, drops: &drops})

	b := a.Move()
	if !a.IsNil() {
		t.Fatal("moved-from handle must be empty")
	}
	if b.RefCount() != 1 {
		t.Fatalf("move must not touch the strong count, got %d", b.RefCount())
	}

	a.Release() // empty, no-op
	b.Release()
	if drops != 1 {
		t.Fatalf("expected exactly one drop, got %d", drops)
	}
}

func TestReset_AdoptsNewPayload(t *testing.T) {
	oldDrops, newDrops := 0, 0
	s := New(payload{value: 1, drops: &oldDrops})

	s.Reset(&payload{value: 2, drops: &newDrops}, nil)
	if oldDrops != 1 {
		t.Fatal("reset must release the previous payload")
	}
	if s.Get().value != 2 {
		t.Fatal("reset must adopt the new payload")
	}

	s.Reset(nil, nil)
	if newDrops != 1 {
		t.Fatal("reset to nil must release the current payload")
	}
	if !s.IsNil() {
		t.Fatal("reset to nil must empty the handle")
	}
}

func TestReset_SamePointerIsNoop(t *testing.T) {
	drops := 0
	p := &payload{drops: &drops}
	s := From(p, nil)

	s.Reset(p, nil)
	if drops != 0 {
		t.Fatal("resetting to the held pointer must be a no-op")
	}
	if s.RefCount() != 1 {
		t.Fatalf("expected strong count 1, got %d", s.RefCount())
	}
	s.Release()
}

func TestSwap(t *testing.T) {
	a := New(payload{value: 1})
	b := New(payload{value: 2})

	a.Swap(&b)
	if a.Get().value != 2 || b.Get().value != 1 {
		t.Fatal("swap must exchange payloads")
	}
	if a.RefCount() != 1 || b.RefCount() != 1 {
		t.Fatal("swap must not touch the counters")
	}

	a.Release()
	b.Release()
}

type document struct {
	title string
	body  string
	drops *int
}

func (d *document) Drop() { *d.drops++ }

func TestAlias_SharesOwnersBlock(t *testing.T) {
	drops := 0
	doc := New(document{title: "t", body: "b", drops: &drops})

	title := Alias(doc, &doc.Get().title)
	if *title.Get() != "t" {
		t.Fatalf("alias must expose the caller's pointer, got %q", *title.Get())
	}
	if doc.RefCount() != 2 {
		t.Fatalf("alias must hold the owner's block, got strong count %d", doc.RefCount())
	}

	doc.Release()
	if drops != 0 {
		t.Fatal("document must stay alive while the alias holds it")
	}

	title.Release()
	if drops != 1 {
		t.Fatalf("releasing the alias must release the owning block, drops=%d", drops)
	}
}

func TestAlias_EmptyOwner(t *testing.T) {
	var none Shared[document]
	field := "loose"
	a := Alias(none, &field)
	if a.RefCount() != 0 {
		t.Fatal("alias of an empty owner carries no block")
	}
	if a.Get() != &field {
		t.Fatal("alias must still expose the supplied pointer")
	}
	a.Release()
}

func TestEqual_ByPayloadPointer(t *testing.T) {
	doc := New(document{title: "t", drops: new(int)})
	clone := doc.Clone()
	other := New(document{title: "t", drops: new(int)})

	if !doc.Equal(clone) {
		t.Fatal("clones expose the same payload and must be equal")
	}
	if doc.Equal(other) {
		t.Fatal("distinct payloads must not be equal")
	}

	// Two aliasing handles over different blocks, same pointer.
	t1 := Alias(doc, &doc.Get().title)
	t2 := Alias(clone, &doc.Get().title)
	if !t1.Equal(t2) {
		t.Fatal("equality follows the payload pointer, not block identity")
	}

	// Same block, different exposed pointers.
	body := Alias(doc, &doc.Get().body)
	if t1.Equal(body) {
		t.Fatal("different payload pointers must not be equal")
	}

	body.Release()
	t1.Release()
	t2.Release()
	doc.Release()
	clone.Release()
	other.Release()
}

func TestTeardown_FiresOnceAcrossMixedOps(t *testing.T) {
	drops := 0
	a := New(payload{value: 3, drops: &drops})
	b := a.Clone()
	c := b.Clone()

	tmp := c.Move()
	c.Release() // empty after move, no-op
	b.Assign(tmp)
	tmp.Release()
	a.Swap(&b)
	a.Release()
	b.Release()

	if drops != 1 {
		t.Fatalf("expected exactly one drop across the sequence, got %d", drops)
	}
}
