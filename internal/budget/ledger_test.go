package budget

import (
	"errors"
	"testing"
	"time"

	"github.com/anamartens/bigday/internal/db"
	"github.com/anamartens/bigday/internal/identity"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
)

func newTestLedger(t *testing.T, totalBudget *float64) (*Ledger, int64) {
	t.Helper()

	conn, err := db.OpenPath(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	weddings := repository.NewWeddingRepo(conn)
	date := time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)
	w, err := weddings.Create("Ana & Robin", date, nil, totalBudget, "ana")
	if err != nil {
		t.Fatalf("create wedding: %v", err)
	}

	guard := identity.NewGuard(weddings, identity.Static("ana"))
	return NewLedger(conn, guard), w.ID
}

func f(v float64) *float64 { return &v }

func TestAddExpenseValidation(t *testing.T) {
	ledger, weddingID := newTestLedger(t, nil)

	var verr *models.ValidationError

	_, err := ledger.AddExpense(weddingID, ExpenseInput{Name: "  "})
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Errorf("empty name: got %v, want ValidationError on name", err)
	}

	_, err = ledger.AddExpense(weddingID, ExpenseInput{Name: "Flowers", Actual: f(-1)})
	if !errors.As(err, &verr) || verr.Field != "actual" {
		t.Errorf("negative actual: got %v, want ValidationError on actual", err)
	}

	_, err = ledger.AddExpense(weddingID, ExpenseInput{Name: "Flowers", PaymentStatus: "refunded"})
	if !errors.As(err, &verr) || verr.Field != "payment_status" {
		t.Errorf("unknown payment status: got %v, want ValidationError on payment_status", err)
	}
}

func TestAddExpenseDefaultsToUnpaid(t *testing.T) {
	ledger, weddingID := newTestLedger(t, nil)

	e, err := ledger.AddExpense(weddingID, ExpenseInput{Name: "Florist deposit"})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if e.PaymentStatus != models.PaymentUnpaid {
		t.Errorf("PaymentStatus = %q, want unpaid", e.PaymentStatus)
	}
}

func TestTotalSpentTreatsMissingActualAsZero(t *testing.T) {
	ledger, weddingID := newTestLedger(t, f(500000))

	for _, in := range []ExpenseInput{
		{Name: "Venue deposit", Actual: f(120000)},
		{Name: "Catering", Actual: f(80000)},
		{Name: "Band", Estimated: f(30000)}, // no actual yet
	} {
		if _, err := ledger.AddExpense(weddingID, in); err != nil {
			t.Fatalf("AddExpense(%s): %v", in.Name, err)
		}
	}

	spent, err := ledger.TotalSpent(weddingID)
	if err != nil {
		t.Fatalf("TotalSpent: %v", err)
	}
	if spent != 200000 {
		t.Errorf("TotalSpent = %v, want 200000", spent)
	}

	used, err := ledger.BudgetUsedPercentage(weddingID)
	if err != nil {
		t.Fatalf("BudgetUsedPercentage: %v", err)
	}
	if used != 40.0 {
		t.Errorf("BudgetUsedPercentage = %v, want 40.0", used)
	}
}

func TestBudgetUsedPercentageWithoutBudget(t *testing.T) {
	ledger, weddingID := newTestLedger(t, nil)

	if _, err := ledger.AddExpense(weddingID, ExpenseInput{Name: "Venue", Actual: f(1000)}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	used, err := ledger.BudgetUsedPercentage(weddingID)
	if err != nil {
		t.Fatalf("BudgetUsedPercentage: %v", err)
	}
	if used != 0 {
		t.Errorf("BudgetUsedPercentage without a budget = %v, want 0", used)
	}
}

func TestCategorySpentIsolation(t *testing.T) {
	ledger, weddingID := newTestLedger(t, nil)

	catering, err := ledger.AddCategory(weddingID, "Catering", "", "", f(12000))
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	flowers, err := ledger.AddCategory(weddingID, "Flowers", "", "", nil)
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	if _, err := ledger.AddExpense(weddingID, ExpenseInput{CategoryID: &catering.ID, Name: "Tasting menu", Actual: f(4500)}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if _, err := ledger.AddExpense(weddingID, ExpenseInput{CategoryID: &flowers.ID, Name: "Bouquets", Actual: f(800)}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	spent, err := ledger.CategorySpent(catering.ID)
	if err != nil {
		t.Fatalf("CategorySpent: %v", err)
	}
	if spent != 4500 {
		t.Errorf("CategorySpent(catering) = %v, want 4500", spent)
	}
}

func TestDeleteCategoryLeavesExpensesUncategorized(t *testing.T) {
	ledger, weddingID := newTestLedger(t, nil)

	cat, err := ledger.AddCategory(weddingID, "Music", "", "", nil)
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if _, err := ledger.AddExpense(weddingID, ExpenseInput{CategoryID: &cat.ID, Name: "DJ", Actual: f(1500)}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	if err := ledger.DeleteCategory(cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	expenses, err := ledger.Expenses(weddingID)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("got %d expenses after category delete, want 1", len(expenses))
	}
	if expenses[0].CategoryID != nil {
		t.Errorf("expense still references deleted category %d", *expenses[0].CategoryID)
	}

	spent, err := ledger.TotalSpent(weddingID)
	if err != nil {
		t.Fatalf("TotalSpent: %v", err)
	}
	if spent != 1500 {
		t.Errorf("TotalSpent = %v, want 1500 (uncategorized spend still counts)", spent)
	}
}

func TestExpenseRejectsForeignCategory(t *testing.T) {
	ledger, weddingID := newTestLedger(t, nil)

	weddings := repository.NewWeddingRepo(db.Get())
	date := time.Date(2027, 9, 4, 0, 0, 0, 0, time.UTC)
	other, err := weddings.Create("Second wedding", date, nil, nil, "ana")
	if err != nil {
		t.Fatalf("create wedding: %v", err)
	}
	foreign, err := ledger.AddCategory(other.ID, "Catering", "", "", nil)
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	var verr *models.ValidationError
	_, err = ledger.AddExpense(weddingID, ExpenseInput{CategoryID: &foreign.ID, Name: "Menu"})
	if !errors.As(err, &verr) || verr.Field != "category_id" {
		t.Errorf("foreign category: got %v, want ValidationError on category_id", err)
	}
}

func TestMutationsRequireOwnership(t *testing.T) {
	ledger, _ := newTestLedger(t, nil)

	weddings := repository.NewWeddingRepo(db.Get())
	date := time.Date(2027, 9, 4, 0, 0, 0, 0, time.UTC)
	foreign, err := weddings.Create("Not ours", date, nil, nil, "sam")
	if err != nil {
		t.Fatalf("create wedding: %v", err)
	}

	var authErr *models.AuthorizationError
	if _, err := ledger.AddExpense(foreign.ID, ExpenseInput{Name: "Venue"}); !errors.As(err, &authErr) {
		t.Errorf("AddExpense on foreign wedding = %v, want AuthorizationError", err)
	}
	if _, err := ledger.AddCategory(foreign.ID, "Catering", "", "", nil); !errors.As(err, &authErr) {
		t.Errorf("AddCategory on foreign wedding = %v, want AuthorizationError", err)
	}
}

func TestDeleteExpenseNotFound(t *testing.T) {
	ledger, _ := newTestLedger(t, nil)

	var nfErr *models.NotFoundError
	if err := ledger.DeleteExpense(9999); !errors.As(err, &nfErr) {
		t.Errorf("DeleteExpense(9999) = %v, want NotFoundError", err)
	}
}
