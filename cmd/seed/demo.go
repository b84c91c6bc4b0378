package main

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"storebooks/internal/core/id"
	"storebooks/internal/core/types"
)

type demoBranch struct {
	ID   id.ID
	Name string
}

type demoUser struct {
	ID       string
	Email    string
	IsAdmin  bool
	Branches []id.ID
}

type demoAmount struct {
	BranchID id.ID
	Amount   types.Money
	At       time.Time
	Note     string
}

type demoCustomer struct {
	ID   int64
	Name string
}

type demoSale struct {
	BranchID   id.ID
	CustomerID *int64 // nil for walk-in sales
	Gross      types.Money
	Net        types.Money
	At         time.Time
	Payments   []types.Money
}

type dataset struct {
	Branches  []demoBranch
	Customers []demoCustomer
	Users     []demoUser
	Purchases []demoAmount
	Expenses  []demoAmount
	Sales     []demoSale
}

var (
	branchNorth = id.MustParse("0190c2a0-0000-7000-8000-000000000001")
	branchSouth = id.MustParse("0190c2a0-0000-7000-8000-000000000002")
)

var expenseNotes = []string{"rent", "electricity", "wages", "delivery", "supplies"}

func cents(n int) types.Money {
	return decimal.New(int64(n), -2)
}

// generate builds a reproducible dataset covering the days days ending on end.
func generate(seed uint64, days int, end types.Date, loc *time.Location) dataset {
	r := rand.New(rand.NewPCG(seed, seed^0x5eed))

	ds := dataset{
		Branches: []demoBranch{
			{ID: branchNorth, Name: "North Store"},
			{ID: branchSouth, Name: "South Store"},
		},
		Customers: []demoCustomer{
			{ID: 1, Name: "Dela Cruz, Ana"},
			{ID: 2, Name: "Santos Hardware"},
			{ID: 3, Name: "Reyes, Marco"},
			{ID: 4, Name: "Bayani Catering"},
		},
		Users: []demoUser{
			{ID: "admin", Email: "admin@storebooks.local", IsAdmin: true},
			{ID: "cashier-north", Email: "north@storebooks.local", Branches: []id.ID{branchNorth}},
			{ID: "manager", Email: "manager@storebooks.local", Branches: []id.ID{branchNorth, branchSouth}},
		},
	}

	start := end.AddDays(-(days - 1))
	for i := 0; i < days; i++ {
		day := start.AddDays(i).Start(loc)
		at := func() time.Time {
			return day.Add(time.Duration(8*60+r.IntN(12*60)) * time.Minute)
		}

		for _, b := range ds.Branches {
			if r.IntN(3) == 0 {
				ds.Purchases = append(ds.Purchases, demoAmount{BranchID: b.ID, Amount: cents(5000 + r.IntN(200000)), At: at()})
			}
			if r.IntN(2) == 0 {
				note := expenseNotes[r.IntN(len(expenseNotes))]
				ds.Expenses = append(ds.Expenses, demoAmount{BranchID: b.ID, Amount: cents(500 + r.IntN(30000)), At: at(), Note: note})
			}

			for n := r.IntN(6); n > 0; n-- {
				gross := 1000 + r.IntN(100000)
				net := gross
				if r.IntN(4) == 0 {
					net -= gross * (1 + r.IntN(15)) / 100
				}

				sale := demoSale{BranchID: b.ID, Gross: cents(gross), Net: cents(net), At: at()}
				if r.IntN(3) > 0 {
					customer := ds.Customers[r.IntN(len(ds.Customers))].ID
					sale.CustomerID = &customer
				}
				// Most sales are settled at the till; the rest are paid in instalments.
				if r.IntN(5) < 2 {
					remaining := net
					for p := 1 + r.IntN(2); p > 0 && remaining > 0; p-- {
						amount := 1 + r.IntN(remaining)
						sale.Payments = append(sale.Payments, cents(amount))
						remaining -= amount
					}
				}
				ds.Sales = append(ds.Sales, sale)
			}
		}
	}

	return ds
}
