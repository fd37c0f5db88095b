package evm

// Hand-trimmed ABIs: only what the gateway calls.

const erc20ABI = `[
  {"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"allowance","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"transfer","type":"function","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const emiManagerABI = `[
  {"name":"createAgreement","type":"function","stateMutability":"nonpayable","inputs":[
    {"name":"lender","type":"address"},{"name":"borrower","type":"address"},{"name":"token","type":"address"},
    {"name":"totalAmount","type":"uint256"},{"name":"interestRate","type":"uint256"},
    {"name":"months","type":"uint256"},{"name":"startTime","type":"uint256"}],"outputs":[]},
  {"name":"updatePaymentStatus","type":"function","stateMutability":"nonpayable","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[]},
  {"name":"getAgreementDetails","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[
    {"name":"lender","type":"address"},{"name":"borrower","type":"address"},{"name":"token","type":"address"},
    {"name":"totalAmount","type":"uint256"},{"name":"emiAmount","type":"uint256"},{"name":"interestRate","type":"uint256"},
    {"name":"months","type":"uint256"},{"name":"startTime","type":"uint256"},{"name":"nextPaymentDue","type":"uint256"},
    {"name":"paymentsMade","type":"uint256"},{"name":"isActive","type":"bool"}]},
  {"name":"getRemainingEMIs","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getNextDueDate","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getCurrentEMIAmount","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getTotalAmountPaid","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getTotalAmountRemaining","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getLenderTotalAmountPaid","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getLenderTotalAmountRemaining","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getLenderRemainingMonths","type":"function","stateMutability":"view","inputs":[{"name":"agreementId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"AgreementCreated","type":"event","inputs":[{"name":"agreementId","type":"uint256","indexed":false},{"name":"lender","type":"address","indexed":true},{"name":"borrower","type":"address","indexed":true}],"anonymous":false}
]`
