package dashboard

import "net/http"

func (d *Dashboard) serveFrontend(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(frontendHTML))
}

const frontendHTML = `<!DOCTYPE html>
<html lang="en"><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>ChainGuardian AI</title>
<style>
:root{--bg:#0b0f17;--sf:#111827;--sf2:#1f2937;--bd:#273244;--tx:#e5e7eb;--tx2:#9ca3af;--tx3:#6b7280;--ac:#6366f1;--gn:#10b981;--or:#f59e0b;--rd:#ef4444}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:system-ui,-apple-system,'Segoe UI',sans-serif;background:var(--bg);color:var(--tx);min-height:100vh}
.app{max-width:1280px;margin:0 auto;padding:20px 24px}
.hdr{display:flex;justify-content:space-between;align-items:center;padding:12px 0 20px;border-bottom:1px solid var(--bd);margin-bottom:20px}
.hdr h1{font-size:22px;font-weight:700}.hdr p{font-size:12px;color:var(--tx2)}
.btn{font-size:12px;padding:9px 16px;border:none;border-radius:8px;cursor:pointer;font-weight:600;background:var(--ac);color:#fff}
.btn:disabled{opacity:.5;cursor:wait}.btn-i{background:var(--sf2);color:var(--tx2);padding:6px 10px}
.acct{font-family:monospace;font-size:12px;padding:8px 12px;border-radius:8px;background:rgba(16,185,129,.1);color:var(--gn);border:1px solid rgba(16,185,129,.3)}
.nav{display:flex;gap:4px;margin-bottom:20px;background:var(--sf);border-radius:10px;padding:4px;border:1px solid var(--bd)}
.nav button{font-size:12px;padding:9px 18px;border:none;background:0;color:var(--tx2);cursor:pointer;border-radius:8px;text-transform:capitalize}
.nav button.on{background:var(--ac);color:#fff}
.sts{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:12px;margin-bottom:20px}
.st{background:var(--sf);border:1px solid var(--bd);border-radius:10px;padding:16px}
.st .l{font-size:11px;color:var(--tx3);text-transform:uppercase;letter-spacing:.6px}.st .v{font-size:26px;font-weight:700;margin-top:6px}
.card{background:var(--sf);border:1px solid var(--bd);border-radius:12px;margin-bottom:18px;overflow:hidden}
.card-h{display:flex;justify-content:space-between;align-items:center;padding:12px 16px;border-bottom:1px solid var(--bd);background:var(--sf2)}
.card-h h3{font-size:13px;font-weight:600}.card-b{padding:16px}
.gr2{display:grid;grid-template-columns:2fr 1fr;gap:18px}
@media(max-width:900px){.gr2{grid-template-columns:1fr}}
table{width:100%;border-collapse:collapse}
th{text-align:left;font-size:10px;color:var(--tx3);text-transform:uppercase;padding:10px 14px;border-bottom:1px solid var(--bd)}
td{padding:10px 14px;border-bottom:1px solid rgba(39,50,68,.5);font-size:12px}
.mono{font-family:monospace}
.bg{display:inline-block;padding:2px 8px;border-radius:5px;font-size:10px;font-weight:600}
.bg-0{background:rgba(16,185,129,.15);color:var(--gn)}.bg-1{background:rgba(245,158,11,.15);color:var(--or)}.bg-2{background:rgba(239,68,68,.15);color:var(--rd)}
.ok{color:var(--gn)}.bad{color:var(--rd)}
.al{display:flex;gap:12px;align-items:center;padding:12px 16px;border-bottom:1px solid var(--bd)}
.al .d{flex:1}.al h4{font-size:13px}.al p{font-size:11px;color:var(--tx2);margin-top:3px}.al .sc{font-weight:700;color:var(--rd)}
.emp{text-align:center;padding:36px;color:var(--tx3);font-size:12px}
.bar{display:flex;align-items:center;gap:8px;margin:6px 0;font-size:11px}.bar .n{width:60px;color:var(--tx2)}
.bar .t{flex:1;height:14px;background:var(--sf2);border-radius:4px;overflow:hidden;display:flex}
.stale{font-size:11px;color:var(--or);margin-left:10px}
</style></head><body>
<div id="root"></div>
<script src="https://cdnjs.cloudflare.com/ajax/libs/react/18.2.0/umd/react.production.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/react-dom/18.2.0/umd/react-dom.production.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/babel-standalone/7.23.9/babel.min.js"></script>
<script type="text/babel">
const{useState,useEffect,useCallback}=React;
const ab=a=>a?(a.length<=10?a:a.slice(0,6)+'...'+a.slice(-4)):'N/A';
const ts=t=>{if(!t)return'N/A';const n=Number(t);const d=new Date(isNaN(n)?t:n);return isNaN(d)?t:d.toLocaleString()};
const badge=s=>s<0.3?<span className="bg bg-0">Low Risk</span>:s<0.7?<span className="bg bg-1">Medium Risk</span>:<span className="bg bg-2">High Risk</span>;
const sev=s=>s===2?'High':s===1?'Medium':'Low';
const pct=s=>Math.round((s||0)*100)+'%';

function useView(){
  const[v,sV]=useState(null);
  const load=useCallback(()=>fetch('/api/view').then(r=>r.ok?r.json():null).then(d=>d&&sV(d)).catch(()=>{}),[]);
  useEffect(()=>{
    load();
    let ws,poll;
    try{
      ws=new WebSocket((location.protocol==='https:'?'wss://':'ws://')+location.host+'/ws');
      ws.onmessage=e=>{const s=JSON.parse(e.data);sV(p=>({...s,wallet:p?p.wallet:undefined}))};
      ws.onclose=()=>{poll=setInterval(load,30000)};
    }catch(e){poll=setInterval(load,30000)}
    return()=>{ws&&ws.close();poll&&clearInterval(poll)};
  },[load]);
  return[v,sV,load];
}

function App(){
  const[v,sV]=useView();
  const[tab,sTab]=useState('dashboard');
  const[busy,sBusy]=useState(false);
  const[wallet,sWallet]=useState(null);
  useEffect(()=>{fetch('/api/wallet').then(r=>r.json()).then(sWallet).catch(()=>{})},[]);
  const connect=()=>{sBusy(true);fetch('/api/wallet/connect',{method:'POST'}).then(r=>r.json()).then(sWallet).finally(()=>sBusy(false))};
  const refresh=()=>fetch('/api/refresh',{method:'POST'}).then(r=>r.ok?r.json():null).then(d=>d&&sV(d)).catch(()=>{});
  const s=v?.stats||{totalTx:0,fraudDetected:0,accuracy:0,activeAlerts:0};
  const w=wallet||v?.wallet;

  return<div className="app">
    <div className="hdr">
      <div><h1>ChainGuardian AI</h1><p>Blockchain Fraud Detection System{v?.stale&&<span className="stale">showing last good data</span>}</p></div>
      {w&&w.status==='connected'?<span className="acct">{ab(w.account)}</span>:
        <button className="btn" disabled={busy} onClick={connect}>{busy?'Connecting...':'Connect Wallet'}</button>}
    </div>
    <div className="nav">{['dashboard','transactions','alerts'].map(t=><button key={t} className={tab===t?'on':''} onClick={()=>sTab(t)}>{t}</button>)}</div>
    {tab==='dashboard'&&<Overview v={v} s={s} refresh={refresh}/>}
    {tab==='transactions'&&<Txs txs={v?.transactions||[]} refresh={refresh}/>}
    {tab==='alerts'&&<Alerts alerts={v?.alerts||[]} refresh={refresh} full/>}
  </div>
}

function Overview({v,s,refresh}){
  const trend=v?.trend||[{name:'No Data',normal:0,fraud:0}];
  const risk=v?.risk||[];
  const max=Math.max(1,...trend.map(p=>p.normal+p.fraud));
  return<>
    <div className="sts">
      <div className="st"><div className="l">Total Transactions</div><div className="v">{s.totalTx}</div></div>
      <div className="st"><div className="l">Fraud Detected</div><div className="v bad">{s.fraudDetected}</div></div>
      <div className="st"><div className="l">Detection Rate</div><div className="v ok">{s.accuracy}%</div></div>
      <div className="st"><div className="l">Active Alerts</div><div className="v">{s.activeAlerts}</div></div>
      <div className="st"><div className="l">Volume (ETH)</div><div className="v">{v?.volume||'0'}</div></div>
      <div className="st"><div className="l">Flagged Addresses</div><div className="v">{v?.flagged_addresses||0}</div></div>
    </div>
    <div className="gr2">
      <div className="card"><div className="card-h"><h3>Fraud Detection Trends</h3></div><div className="card-b">
        {trend.map((p,i)=><div key={i} className="bar"><span className="n">{p.name}</span><span className="t">
          <span style={{width:(p.normal/max*100)+'%',background:'var(--gn)'}}/><span style={{width:(p.fraud/max*100)+'%',background:'var(--rd)'}}/>
        </span><span>{p.normal}/{p.fraud}</span></div>)}
      </div></div>
      <div className="card"><div className="card-h"><h3>Risk Distribution</h3></div><div className="card-b">
        {risk.map((r,i)=><div key={i} className="bar"><span className="n">{r.name}</span><span className="t"><span style={{width:r.value+'%',background:r.color}}/></span><span>{r.value}%</span></div>)}
      </div></div>
    </div>
    <Alerts alerts={(v?.alerts||[]).slice(0,5)} refresh={refresh}/>
  </>
}

function Txs({txs,refresh}){
  return<div className="card"><div className="card-h"><h3>Recent Transactions</h3><button className="btn btn-i" onClick={refresh}>↻</button></div>
    <table><thead><tr><th>Tx Hash</th><th>From</th><th>To</th><th>Amount</th><th>Risk</th><th>Status</th></tr></thead><tbody>
      {txs.length===0?<tr><td colSpan="6" className="emp">No transactions yet</td></tr>:
        txs.map((t,i)=><tr key={t._id||t.txHash||i}><td className="mono">{ab(t.txHash)}</td><td className="mono">{ab(t.from)}</td><td className="mono">{ab(t.to)}</td>
          <td>{t.amount} ETH</td><td>{badge(t.riskScore)}</td><td>{t.label==='normal'?<span className="ok">✓</span>:<span className="bad">✗</span>}</td></tr>)}
    </tbody></table></div>
}

function Alerts({alerts,refresh,full}){
  return<div className="card"><div className="card-h"><h3>{full?'All Alerts':'Recent Alerts'}</h3><button className="btn btn-i" onClick={refresh}>↻</button></div>
    {alerts.length===0?<div className="emp">{full?'No alerts. System is secure.':'No alerts yet. System monitoring...'}</div>:
      alerts.map((a,i)=><div key={a._id||a.sigHash||i} className="al"><div className="d">
        <h4>{full?'Fraud Alert':'Suspicious Transaction Detected'}</h4>
        <p className="mono">Address: {ab(a.flaggedAddress)}{full&&<> · Tx: {ab(a.txHash)} · Severity: {sev(a.severity)}</>}</p>
        <p>{ts(a.timestamp)}</p></div><span className="sc">{pct(a.riskScore)}</span></div>)}
  </div>
}

ReactDOM.createRoot(document.getElementById('root')).render(<App/>);
</script></body></html>`
