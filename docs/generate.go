package docs

//go:generate swag init -g cmd/api/main.go -d ../ -o . --parseInternal
