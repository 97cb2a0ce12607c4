package constants

// ValidBankCodes holds the FEBRABAN clearing codes the checker recognizes.
// An unknown code is suspicious but not proof of fraud on its own.
var ValidBankCodes = map[int]struct{}{
	1:   {}, // Banco do Brasil
	33:  {}, // Santander
	77:  {}, // Inter
	104: {}, // Caixa Econômica Federal
	197: {}, // Stone
	237: {}, // Bradesco
	243: {}, // Banco Máxima
	260: {}, // Nubank
	290: {}, // PagSeguro
	323: {}, // Mercado Pago
	336: {}, // C6 Bank
	341: {}, // Itaú
	368: {}, // Banco CSF
	380: {}, // PicPay
	403: {}, // Cora
	623: {}, // Banco PAN
	654: {}, // Banco Digimais
	655: {}, // Votorantim
	748: {}, // Sicredi
	756: {}, // Sicoob
}

// IsKnownBank reports whether code belongs to the FEBRABAN allow-list.
func IsKnownBank(code int) bool {
	_, ok := ValidBankCodes[code]
	return ok
}
