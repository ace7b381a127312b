package analyzer

import "testing"

func TestShadowStackPushPop(t *testing.T) {
	s := NewShadowStack()
	if err := s.Push(0x100, 10); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := s.Push(0x200, 20); err != nil {
		t.Fatalf("push: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	addr, start, ok := s.Pop()
	if !ok || addr != 0x200 || start != 20 {
		t.Fatalf("Pop() = %x %d %v, want 0x200 20 true", addr, start, ok)
	}

	top, ok := s.TopAddress()
	if !ok || top != 0x100 {
		t.Fatalf("TopAddress() = %x %v, want 0x100 true", top, ok)
	}
}

func TestShadowStackPopEmpty(t *testing.T) {
	s := NewShadowStack()
	if _, _, ok := s.Pop(); ok {
		t.Fatalf("expected Pop on empty stack to report ok=false")
	}
	if _, ok := s.TopAddress(); ok {
		t.Fatalf("expected TopAddress on empty stack to report ok=false")
	}
}

func TestShadowStackDepthLimit(t *testing.T) {
	s := NewShadowStack()
	for i := 0; i < MaxStackDepth; i++ {
		if err := s.Push(uint32(i), 0); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := s.Push(0xDEAD, 0); err == nil {
		t.Fatalf("expected capacity error on the (MaxStackDepth+1)'th push")
	}
}
