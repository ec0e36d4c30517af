package expense

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveExpense", func() {
		var (
			expense *Expense
			err     error
		)

		BeforeEach(func() {
			total := decimal.RequireFromString("128.15")
			vat := decimal.RequireFromString("25.63")
			expense = &Expense{
				ID:          "test-id",
				Merchant:    "COOP PRIX",
				Currency:    "NOK",
				Total:       &total,
				VATAmount:   &vat,
				Filename:    "test.jpg",
				ContentType: "image/jpeg",
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveExpense(expense)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the expense to the database", func() {
				saved, getErr := db.GetExpense("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
			})
		})
	})

	Describe("GetExpense", func() {
		var (
			expenseID string
			expense   *Expense
			err       error
		)

		JustBeforeEach(func() {
			expense, err = db.GetExpense(expenseID)
		})

		When("the expense exists", func() {
			BeforeEach(func() {
				expenseID = "test-id"
				total := decimal.RequireFromString("1245.8")
				vat := decimal.RequireFromString("249.16")
				testExpense := &Expense{
					ID:          "test-id",
					Merchant:    "REMA 1000",
					Currency:    "NOK",
					Total:       &total,
					VATAmount:   &vat,
					Filename:    "test.jpg",
					ContentType: "image/jpeg",
					CreatedAt:   time.Now(),
					UpdatedAt:   time.Now(),
				}
				Expect(db.SaveExpense(testExpense)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct expense ID", func() {
				Expect(expense.ID).To(Equal("test-id"))
			})

			It("should return the correct merchant", func() {
				Expect(expense.Merchant).To(Equal("REMA 1000"))
			})

			It("should round-trip the total exactly", func() {
				Expect(expense.Total).NotTo(BeNil())
				Expect(expense.Total.String()).To(Equal("1245.8"))
			})

			It("should round-trip the VAT amount exactly", func() {
				Expect(expense.VATAmount).NotTo(BeNil())
				Expect(expense.VATAmount.String()).To(Equal("249.16"))
			})
		})

		When("the expense has no extracted amounts", func() {
			BeforeEach(func() {
				expenseID = "sparse-id"
				testExpense := &Expense{
					ID:          "sparse-id",
					Currency:    "NOK",
					Filename:    "test.txt",
					ContentType: "text/plain",
					CreatedAt:   time.Now(),
					UpdatedAt:   time.Now(),
				}
				Expect(db.SaveExpense(testExpense)).NotTo(HaveOccurred())
			})

			It("should return nil amounts", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(expense.Total).To(BeNil())
				Expect(expense.VATAmount).To(BeNil())
			})
		})

		When("the expense does not exist", func() {
			var expectedErr error

			BeforeEach(func() {
				expenseID = "nonexistent"
				expectedErr = errors.New("expense not found: nonexistent")
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(expectedErr))
			})
		})
	})

	Describe("ListExpenses", func() {
		var (
			expenses []*Expense
			err      error
		)

		JustBeforeEach(func() {
			expenses, err = db.ListExpenses()
		})

		When("expenses exist", func() {
			BeforeEach(func() {
				expense1 := &Expense{
					ID:        "id1",
					Merchant:  "KIWI",
					Currency:  "NOK",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				expense2 := &Expense{
					ID:        "id2",
					Merchant:  "MENY",
					Currency:  "NOK",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				Expect(db.SaveExpense(expense1)).NotTo(HaveOccurred())
				Expect(db.SaveExpense(expense2)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all expenses", func() {
				Expect(expenses).To(HaveLen(2))
			})
		})

		When("no expenses exist", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an empty list", func() {
				Expect(expenses).To(BeEmpty())
			})
		})
	})

	Describe("DeleteExpense", func() {
		var (
			expenseID string
			err       error
		)

		JustBeforeEach(func() {
			err = db.DeleteExpense(expenseID)
		})

		When("the expense exists", func() {
			BeforeEach(func() {
				expenseID = "test-id"
				expense := &Expense{
					ID:        "test-id",
					Merchant:  "KIWI",
					Currency:  "NOK",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				Expect(db.SaveExpense(expense)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the expense from the database", func() {
				_, getErr := db.GetExpense("test-id")
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("the expense does not exist", func() {
			BeforeEach(func() {
				expenseID = "nonexistent"
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			err := db.Close()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
