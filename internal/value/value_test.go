package value

import "testing"

func TestEqualIntegerRuntime(t *testing.T) {
	a := NewInteger(3, true, 64)
	b := NewInteger(3, true, 64)
	c := NewInteger(4, true, 64)
	if !Equal(a, b) {
		t.Errorf("Equal(3, 3) = false, want true")
	}
	if Equal(a, c) {
		t.Errorf("Equal(3, 4) = true, want false")
	}
}

func TestEqualIntegerType(t *testing.T) {
	a := IntegerType(true, 64)
	b := IntegerType(true, 64)
	c := IntegerType(false, 64)
	if !Equal(a, b) {
		t.Errorf("Equal(int64, int64) = false, want true")
	}
	if Equal(a, c) {
		t.Errorf("Equal(int64, uint64) = true, want false")
	}
}

func TestEqualOptional(t *testing.T) {
	inner := IntegerType(true, 64)
	present := NewPresent(inner, NewInteger(5, true, 64))
	presentSame := NewPresent(inner, NewInteger(5, true, 64))
	presentDiff := NewPresent(inner, NewInteger(6, true, 64))
	absent := NewAbsent(inner)

	if !Equal(present, presentSame) {
		t.Errorf("two present optionals with equal payloads should be Equal")
	}
	if Equal(present, presentDiff) {
		t.Errorf("present optionals with different payloads should not be Equal")
	}
	if Equal(present, absent) {
		t.Errorf("present and absent should not be Equal")
	}
}

func TestTypeAssignablePointerToVoid(t *testing.T) {
	voidPtr := PointerTypeOf(Void)
	intPtr := PointerTypeOf(IntegerType(true, 64))
	boolPtr := PointerTypeOf(BoolType())

	if !TypeAssignable(voidPtr, intPtr) {
		t.Errorf("^void should accept ^int")
	}
	if !TypeAssignable(intPtr, voidPtr) {
		t.Errorf("^int should accept ^void")
	}
	if TypeAssignable(intPtr, boolPtr) {
		t.Errorf("^int should not accept ^bool")
	}
}

func TestTypeAssignableStructural(t *testing.T) {
	want := IntegerType(true, 64)
	got := IntegerType(true, 64)
	if !TypeAssignable(want, got) {
		t.Errorf("identical integer types should be assignable")
	}
	if TypeAssignable(want, IntegerType(false, 64)) {
		t.Errorf("signed/unsigned integer types should not be assignable")
	}
}

func TestEqualStructRuntime(t *testing.T) {
	f1 := []*Value{NewInteger(1, true, 64), NewBool(true)}
	f2 := []*Value{NewInteger(1, true, 64), NewBool(true)}
	f3 := []*Value{NewInteger(2, true, 64), NewBool(true)}
	s1 := NewStruct(nil, f1)
	s2 := NewStruct(nil, f2)
	s3 := NewStruct(nil, f3)
	if !Equal(s1, s2) {
		t.Errorf("structs with equal fields and nil decl should be Equal")
	}
	if Equal(s1, s3) {
		t.Errorf("structs with different fields should not be Equal")
	}
}
