package credits

import (
	"context"
	"testing"
)

func TestCheckAdmissionReadsWithoutMutating(t *testing.T) {
	svc := NewService(NewMemoryStore(3.0))
	ctx := context.Background()

	ok, balance, err := svc.CheckAdmission(ctx, 2.0)
	if err != nil {
		t.Fatalf("CheckAdmission: %v", err)
	}
	if !ok {
		t.Fatal("expected admission with sufficient balance")
	}
	if balance != 3.0 {
		t.Fatalf("expected balance 3.0, got %v", balance)
	}

	after, err := svc.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if after != 3.0 {
		t.Fatalf("admission check must not mutate balance, got %v", after)
	}
}

func TestCheckAdmissionRejectsInsufficientBalance(t *testing.T) {
	svc := NewService(NewMemoryStore(1.5))

	ok, balance, err := svc.CheckAdmission(context.Background(), 2.0)
	if err != nil {
		t.Fatalf("CheckAdmission: %v", err)
	}
	if ok {
		t.Fatal("expected rejection when estimate exceeds balance")
	}
	if balance != 1.5 {
		t.Fatalf("expected balance 1.5, got %v", balance)
	}
}

func TestCheckAdmissionAllowsExactBalance(t *testing.T) {
	svc := NewService(NewMemoryStore(2.0))

	ok, _, err := svc.CheckAdmission(context.Background(), 2.0)
	if err != nil {
		t.Fatalf("CheckAdmission: %v", err)
	}
	if !ok {
		t.Fatal("expected admission when estimate equals balance")
	}
}

func TestDeductAndCredit(t *testing.T) {
	svc := NewService(NewMemoryStore(5.0))
	ctx := context.Background()

	balance, err := svc.Deduct(ctx, 2.0)
	if err != nil {
		t.Fatalf("Deduct: %v", err)
	}
	if balance != 3.0 {
		t.Fatalf("expected 3.0 after deduct, got %v", balance)
	}

	balance, err = svc.Credit(ctx, 4.5)
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if balance != 7.5 {
		t.Fatalf("expected 7.5 after credit, got %v", balance)
	}
}

func TestDeductMayOverdraw(t *testing.T) {
	svc := NewService(NewMemoryStore(1.0))

	balance, err := svc.Deduct(context.Background(), 2.0)
	if err != nil {
		t.Fatalf("Deduct: %v", err)
	}
	if balance != -1.0 {
		t.Fatalf("expected overdraft balance -1.0, got %v", balance)
	}
}

func TestDeductRejectsNegativeAmount(t *testing.T) {
	svc := NewService(NewMemoryStore(1.0))
	if _, err := svc.Deduct(context.Background(), -1.0); err == nil {
		t.Fatal("expected error for negative deduct")
	}
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(NewMemoryStore(1.0))
	if _, err := svc.Credit(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero credit")
	}
}
