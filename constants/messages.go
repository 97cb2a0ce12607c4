package constants

// User-facing messages, kept in Portuguese to match the DetectaBB backend.
const (
	MsgInvalidFileType = "Tipo de arquivo não suportado. Use JPG, PNG ou PDF."
	MsgFileTooLarge    = "Arquivo muito grande. Máximo: 10MB."
	MsgEmptyFile       = "Arquivo vazio."

	MsgNetworkError    = "Erro ao conectar com servidor. Tente novamente."
	MsgServerError     = "Erro interno do servidor. Tente mais tarde."
	MsgProcessingError = "Erro ao processar boleto. Tente novamente."
	MsgDailyLimit      = "Limite diário de análises atingido. Faça login para análises ilimitadas!"
	MsgUnauthorized    = "Sessão expirada. Faça login novamente."

	MsgResultNotReady = "Resultado ainda não disponível. Tente novamente em alguns segundos."
	MsgResultNotFound = "Resultado não encontrado"

	MsgAnalysisStarted  = "Análise iniciada! Aguarde o resultado..."
	MsgAnalysisComplete = "Análise concluída!"
)
