package viewmodel

type LoginOption struct {
	Name  string
	Label string
}

type LoginPage struct {
	Layout
	Providers []LoginOption
}

type ErrorPage struct {
	Layout
	Code    int
	Message string
}
