package email

const subjectVendedorWelcome = "Bem-vindo ao Pipeline"
