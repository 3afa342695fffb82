package ports

// AccountNameLookup resolves the display name of well known accounts, like
// gateways. Unknown accounts resolve to an empty string.
type AccountNameLookup interface {
	AccountName(account string) string
}
