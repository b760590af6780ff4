// Package route names the paths the app can navigate between.
package route

const (
	PathLogin   = "/"
	PathBills   = "/employee/bills"
	PathNewBill = "/employee/bill/new"
)

// Navigate moves the user to another path.
type Navigate func(path string)
