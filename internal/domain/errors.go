package domain

import "errors"

var (
	// ErrNotFound indica que nenhum arquivo candidato foi encontrado no diretório.
	ErrNotFound = errors.New("arquivo de dados não encontrado")
	// ErrUnreadableFile indica que nenhuma codificação conseguiu ler o arquivo.
	ErrUnreadableFile = errors.New("arquivo ilegível")
	// ErrSchemaMismatch indica que nenhuma coluna esperada foi reconhecida.
	ErrSchemaMismatch = errors.New("colunas esperadas não encontradas")
)
